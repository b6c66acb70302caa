package session

import (
	"strings"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
)

const (
	ctxSessionKey = "session"
	HeaderRole    = "X-Library-Role"
)

// Attach resolves the caller's session: a Bearer token wins, then the
// X-Library-Role header, otherwise the anonymous session.
func Attach(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s Session

		if h := c.GetHeader("Authorization"); h != "" {
			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				apierr.Abort(c, apierr.ErrUnauthenticated("invalid Authorization header"))
				return
			}
			parsed, err := issuer.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				apierr.Abort(c, apierr.ErrUnauthenticated("invalid session token"))
				return
			}
			s = parsed
		} else if v := c.GetHeader(HeaderRole); v != "" {
			role, ok := ParseRole(v)
			if !ok {
				apierr.Abort(c, apierr.ErrInvalid("unknown role "+v))
				return
			}
			s.Role = role
		}

		c.Set(ctxSessionKey, s)
		c.Next()
	}
}

// RequireCapability rejects sessions whose role lacks cap.
func RequireCapability(cp Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !FromContext(c).Can(cp) {
			apierr.Abort(c, apierr.ErrForbidden("forbidden"))
			return
		}
		c.Next()
	}
}

func FromContext(c *gin.Context) Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}
