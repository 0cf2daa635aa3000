//go:build e2e

package admin_test

import (
	"net/http"
	"testing"

	"shop-inventory/internal/domain/user"
	"shop-inventory/internal/handler/dto/request"
	"shop-inventory/internal/usecase/queries"
	"shop-inventory/tests/common/authtest"
	"shop-inventory/tests/common/dbtest"
	"shop-inventory/tests/common/httptest"
	"shop-inventory/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AdminSuite struct {
	e2e.SharedSuite
}

func (s *AdminSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestAdminSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AdminSuite))
}

func stockURL(skuID uuid.UUID) string {
	return "/api/admin/skus/" + skuID.String() + "/stock"
}

func intPtr(v int32) *int32 { return &v }

func (s *AdminSuite) TestSetStock() {
	s.Run("Normal case: admin adjusts the stock total", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Basic Tee", "basic-tee")
		skuID := dbtest.CreateTestSku(t, s.DB, productID, "TEE-BLK-M", 2500, 5)

		token := authtest.LoginUser(t, s.Router, "admin@example.com", "password123")
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, stockURL(skuID),
			request.SetStockRequest{Stock: intPtr(12)}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view queries.SkuView
		httptest.DecodeResponseBody(t, w.Body, &view)
		require.Equal(t, int32(12), view.Stock)
		require.Equal(t, int32(12), view.AvailableStock)
	})

	s.Run("Error case: cannot drop stock below open holds", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Basic Tee", "basic-tee")
		skuID := dbtest.CreateTestSku(t, s.DB, productID, "TEE-BLK-M", 2500, 5)

		reqBody := request.ReserveStockRequest{
			Items:     []request.ReserveItemRequest{{SkuID: skuID, Quantity: 3}},
			SessionID: "sess-e2e-admin",
		}
		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/cart/reserve", reqBody, "")
		require.Equal(t, http.StatusCreated, rw.Code, rw.Body.String())

		token := authtest.LoginUser(t, s.Router, "admin@example.com", "password123")
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, stockURL(skuID),
			request.SetStockRequest{Stock: intPtr(2)}, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Error case: operator role is not enough", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Basic Tee", "basic-tee")
		skuID := dbtest.CreateTestSku(t, s.DB, productID, "TEE-BLK-M", 2500, 5)

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "ops@example.com", string(user.RoleOperator))
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, stockURL(skuID),
			request.SetStockRequest{Stock: intPtr(12)}, token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}
