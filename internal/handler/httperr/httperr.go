package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error body every surface of this API emits: a flat
// message under "error", optionally with machine-readable detail such as
// the unavailable items of a rejected reservation batch.
type Response struct {
	Status int    `json:"-"`
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

// Abort records the original error on the context for the logging
// middleware and writes the public body. The wrapped error never reaches
// the client.
func Abort(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("httperr.Abort: err cannot be nil")
	}

	resp := Response{Status: status, Error: msg, Detail: detail}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
