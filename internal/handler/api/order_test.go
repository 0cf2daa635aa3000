//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"shop-inventory/internal/handler/api"
	resdto "shop-inventory/internal/handler/dto/response"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/commands"
	"shop-inventory/tests/common/builder"
	"shop-inventory/tests/common/httptest"
	"shop-inventory/tests/common/testutil"
	commandsmock "shop-inventory/tests/mock/commands"
	queriesmock "shop-inventory/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderCommands
	mockQueries  *queriesmock.MockOrderQueries
	handler      *api.OrderHandler
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/orders", s.handler.Create)
	s.router.GET("/orders/:id", s.handler.GetByID)
	s.router.POST("/orders/:id/confirm", s.handler.Confirm)
	s.router.POST("/orders/:id/cancel", s.handler.Cancel)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func idempotencyHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *OrderHandlerTestSuite) TestCreate() {
	url := "/orders"

	order := builder.NewOrderBuilder()
	reqBody := order.BuildCreateRequestDTO()
	returnView := order.BuildView()

	s.Run("success: returns 201 Created with the new order", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), reqBody.ToParams(), gomock.Any()).
			Return(&commands.CreateOrderResult{Order: returnView}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", idempotencyHeader())

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal("pending", response.Status)
		s.Equal(returnView.TotalCents, response.TotalCents)
		s.Require().Len(response.Items, 1)
		s.Equal(order.SkuCode, response.Items[0].SkuCode)
	})

	s.Run("success: replayed request returns 200 OK", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), reqBody.ToParams(), gomock.Any()).
			Return(&commands.CreateOrderResult{Order: returnView, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", idempotencyHeader())

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnView.ID, response.ID)
	})

	s.Run("error: 400 when the Idempotency-Key header is absent or malformed", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "idempotency key required")

		rec = httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "",
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid idempotency key format")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: email", mutate: testutil.Field("email", nil)},
			{name: "malformed email", mutate: testutil.Field("email", "not-an-email")},
			{name: "missing field: sessionId", mutate: testutil.Field("sessionId", nil)},
			{name: "missing field: reservationIds", mutate: testutil.Field("reservationIds", nil)},
			{name: "empty reservationIds", mutate: testutil.Field("reservationIds", []any{})},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, requestMap, "", idempotencyHeader())
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "expired reservation",
				commandsError:  errs.Mark(errors.New("no rows"), errs.ErrReservationExpired),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "reservations have expired",
			},
			{
				name:           "same key, different body",
				commandsError:  errs.ErrDuplicateRequest,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Duplicate order request",
			},
			{
				name:           "first attempt still processing",
				commandsError:  errs.ErrIdempotencyInProgress,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "currently being processed",
			},
			{
				name:           "domain validation error",
				commandsError:  errs.Mark(errors.New("reservation belongs to another session"), errs.ErrDomainValidation),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Domain validation failed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", idempotencyHeader())
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetByID
// ================================================================================

func (s *OrderHandlerTestSuite) TestGetByID() {
	order := builder.NewOrderBuilder()
	returnView := order.BuildView()
	url := "/orders/" + order.ID.String()

	s.Run("success: returns 200 OK with OrderResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), order.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(order.ID, response.ID)
		s.Equal(order.Email, response.Email)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/invalid-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order ID")
	})

	s.Run("error: 404 Not Found for missing order", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), order.ID).
			Return(nil, errs.Mark(errors.New("no rows"), errs.ErrOrderNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})
}

// ================================================================================
// TestConfirm / TestCancel
// ================================================================================

func (s *OrderHandlerTestSuite) TestConfirm() {
	order := builder.NewOrderBuilder()
	url := "/orders/" + order.ID.String() + "/confirm"

	s.Run("success: returns 200 OK with the confirmed order", func() {
		confirmedView := builder.NewOrderBuilder().WithStatus("confirmed").BuildView()
		confirmedView.ID = order.ID

		s.mockCommands.EXPECT().ConfirmOrder(gomock.Any(), order.ID).Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), order.ID).Return(confirmedView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: maps transition errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "unknown order",
				commandsError:  errs.Mark(errors.New("no rows"), errs.ErrOrderNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Order not found",
			},
			{
				name:           "already confirmed",
				commandsError:  errs.Mark(errors.New("invalid transition"), errs.ErrInvalidOrderTransition),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "cannot transition",
			},
			{
				name:           "holds swept before payment",
				commandsError:  errs.Mark(errors.New("order holds missing"), errs.ErrReservationExpired),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "reservations have expired",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().ConfirmOrder(gomock.Any(), order.ID).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *OrderHandlerTestSuite) TestCancel() {
	order := builder.NewOrderBuilder()
	url := "/orders/" + order.ID.String() + "/cancel"

	s.Run("success: returns 200 OK with the canceled order", func() {
		canceledView := builder.NewOrderBuilder().WithStatus("canceled").BuildView()
		canceledView.ID = order.ID

		s.mockCommands.EXPECT().CancelOrder(gomock.Any(), order.ID).Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), order.ID).Return(canceledView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("canceled", response.Status)
	})

	s.Run("error: 409 when the order is already confirmed", func() {
		s.mockCommands.EXPECT().CancelOrder(gomock.Any(), order.ID).
			Return(errs.Mark(errors.New("invalid transition"), errs.ErrInvalidOrderTransition)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "cannot transition")
	})
}
