//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/handler/middleware"
	usecasemock "rental-booking/internal/mock/usecase"
	"rental-booking/internal/pkg/cookie"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/testutil/httptest"
	"rental-booking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *usecasemock.MockTokenValidator) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	validator := usecasemock.NewMockTokenValidator(ctrl)

	r := gin.New()
	r.GET("/me", middleware.NewAuthMiddleware(validator).RequireAuth(), func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r, validator
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	principal := usecase.Principal{UserID: userID, Role: user.RoleAdmin}

	t.Run("bearer token", func(t *testing.T) {
		r, validator := newAuthRouter(t)
		validator.EXPECT().ValidateToken("tok").Return(principal, nil)

		w := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "tok")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"`+userID.String()+`","role":"admin"}`, w.Body.String())
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		r, validator := newAuthRouter(t)
		validator.EXPECT().ValidateToken("from-cookie").Return(principal, nil)

		cookies := []*http.Cookie{{Name: cookie.AccessTokenCookieName, Value: "from-cookie"}}
		w := httptest.PerformRequestWithCookies(t, r, http.MethodGet, "/me", nil, cookies, "from-header")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		r, _ := newAuthRouter(t)

		w := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorCode(t, w, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	t.Run("rejected token", func(t *testing.T) {
		r, validator := newAuthRouter(t)
		validator.EXPECT().ValidateToken("bad").
			Return(usecase.Principal{}, errs.Mark(errs.New("token is expired"), errs.ErrAuthentication))

		w := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "bad")
		httptest.AssertErrorCode(t, w, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})
}
