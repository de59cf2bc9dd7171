package middleware

import (
	"log/slog"
	"net/http"

	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		// latest public error wins
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]

			if err.IsType(gin.ErrorTypePublic) {
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		if len(c.Errors) > 0 {
			resp := httperr.Response{Status: http.StatusInternalServerError}
			resp.Error.Message = "Internal server error"
			resp.Error.Code = httperr.CodeInternal
			c.JSON(http.StatusInternalServerError, resp)
		}
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = errs.New("panic: " + slogValue(rec))
				}
				slog.Error("recovered from panic",
					"error", err.Error(),
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
					"stack", errs.ExtractStackLines(errs.Wrap(err, "panic"), 12))

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"
				resp.Error.Code = httperr.CodeInternal

				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}

func slogValue(v any) string {
	return slog.AnyValue(v).String()
}
