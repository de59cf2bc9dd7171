package cookie

import (
	"net/http"
	"strings"
	"time"

	"rental-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const AccessTokenCookieName = "access_token"

// the session is only sent to API routes, not swagger or metrics
const accessTokenPath = "/api"

// SetAccessTokenCookie issues the session cookie that the auth middleware
// prefers over the Authorization header.
func SetAccessTokenCookie(c *gin.Context, cfg config.CookieConfig, accessToken string, expiry time.Duration) {
	http.SetCookie(c.Writer, accessCookie(cfg, accessToken, int(expiry.Seconds())))
}

func ClearAccessTokenCookie(c *gin.Context, cfg config.CookieConfig) {
	http.SetCookie(c.Writer, accessCookie(cfg, "", -1))
}

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

// SameSite=None cookies are rejected by browsers unless Secure.
func accessCookie(cfg config.CookieConfig, value string, maxAge int) *http.Cookie {
	sameSite := parseSameSite(cfg.SameSite)
	return &http.Cookie{
		Name:     AccessTokenCookieName,
		Value:    value,
		Path:     accessTokenPath,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure || sameSite == http.SameSiteNoneMode,
		SameSite: sameSite,
	}
}

func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
