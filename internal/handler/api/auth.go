package api

import (
	"net/http"
	"time"

	reqdto "rental-booking/internal/handler/dto/request"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/cookie"
	"rental-booking/internal/pkg/jwt"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cmds      commands.AuthCommands
	users     queries.UserQueries
	cookieCfg config.CookieConfig
	tokenTTL  time.Duration
}

func NewAuthHandler(cmds commands.AuthCommands, users queries.UserQueries, cfg config.Config, jwtService *jwt.Service) *AuthHandler {
	return &AuthHandler{
		cmds:      cmds,
		users:     users,
		cookieCfg: cfg.Cookie,
		tokenTTL:  jwtService.TokenDuration(),
	}
}

// @Summary Register
// @Description Create a user account with the default role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Registration"
// @Success 201 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	view, err := h.cmds.Register(c.Request.Context(), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromUserView(view))
}

// @Summary User login
// @Description Login with email and password. The token is returned in the body and set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	view, err := h.users.GetCurrentUser(c.Request.Context(), result.UserID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	cookie.SetAccessTokenCookie(c, h.cookieCfg, result.AccessToken, h.tokenTTL)
	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.AccessToken,
		User:        resdto.FromUserView(view),
	})
}

// @Summary User logout
// @Description Clears the access token cookie. Bearer tokens stay valid until they expire.
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessTokenCookie(c, h.cookieCfg)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.users.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromUserView(view))
}
