package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/workforcekpi/internal/observability/context"
)

const (
	contextAuthTypeKey = "auth_type"
	contextAPIKeyIDKey = "api_key_id"
	contextRoleKey     = "role"
)

// APIKeyRequired authenticates requests with a bearer API key. The key's
// role is the only source of authority for the request.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		key, err := s.apiKeySvc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextAuthTypeKey, string(ActorAPIKey))
		c.Set(contextAPIKeyIDKey, key.KeyID)
		c.Set(contextRoleKey, key.Role.Subject())

		ctx := obscontext.WithActor(c.Request.Context(), string(ActorAPIKey), key.KeyID)
		ctx = obscontext.WithClient(ctx, c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(strings.TrimSpace(header))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}
