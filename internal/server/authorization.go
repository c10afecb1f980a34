package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type ActorType string

const (
	ActorAPIKey ActorType = "api_key"
)

type Actor struct {
	Type ActorType
	ID   string
	Role string
}

func (a Actor) subject() string {
	return string(a.Type) + ":" + a.ID
}

func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if s.authzSvc == nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), actor.subject(), actor.Role, strings.TrimSpace(object), strings.TrimSpace(action)); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func actorFromContext(c *gin.Context) (Actor, bool) {
	if c == nil {
		return Actor{}, false
	}
	if c.GetString(contextAuthTypeKey) != string(ActorAPIKey) {
		return Actor{}, false
	}
	id := strings.TrimSpace(c.GetString(contextAPIKeyIDKey))
	role := strings.TrimSpace(c.GetString(contextRoleKey))
	if id == "" || role == "" {
		return Actor{}, false
	}
	return Actor{Type: ActorAPIKey, ID: id, Role: role}, true
}
