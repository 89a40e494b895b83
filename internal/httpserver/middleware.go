package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pawpals/internal/domain"
	"pawpals/internal/storage"
)

const (
	tokenCookie  = "token"
	clientCtxKey = "client"
)

// requireClient resolves the session token to a client or aborts with 401.
func (a *api) requireClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			abortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		client, err := a.deps.ClientSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				abortError(c, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			a.writeError(c, err)
			c.Abort()
			return
		}
		c.Set(clientCtxKey, client)
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(tokenCookie); err == nil {
		return cookie
	}
	return ""
}

func currentClient(c *gin.Context) *domain.Client {
	v, ok := c.Get(clientCtxKey)
	if !ok {
		return nil
	}
	client, _ := v.(*domain.Client)
	return client
}

func (a *api) setTokenCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	a.cookie(c, token, maxAge)
}

func (a *api) clearTokenCookie(c *gin.Context) {
	a.cookie(c, "", -1)
}

func (a *api) cookie(c *gin.Context, value string, maxAge int) {
	if a.opts.CookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(tokenCookie, value, maxAge, "/", a.opts.CookieDomain, a.opts.CookieSecure, true)
}

// writeError maps service errors to a status and a client-safe message.
// Anything unexpected is logged and reported as a 500 without detail.
func (a *api) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, storage.ErrInvalidImage),
		errors.Is(err, storage.ErrImageTooLarge):
		respondError(c, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrForbidden):
		respondError(c, http.StatusForbidden, err)
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrInsufficientStock):
		respondError(c, http.StatusConflict, err)
	case errors.Is(err, domain.ErrCheckoutFailed):
		a.logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrCheckoutFailed.Error()})
	default:
		a.logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
