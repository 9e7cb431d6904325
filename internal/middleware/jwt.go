package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
	"github.com/noah-isme/sma-dashboard-api/pkg/logger"
	"github.com/noah-isme/sma-dashboard-api/pkg/response"
)

// ContextActorKey is the gin context key storing the resolved models.Actor.
const ContextActorKey = "currentActor"

// JWT protects routes by requiring a valid access token whose account still
// resolves to an actor.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or invalid authorization header"))
			return
		}

		actor, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ContextActorKey, actor)
		c.Set(logger.ContextRoleKey, string(actor.Role))
		c.Next()
	}
}

// ActorFromContext returns the actor stored by JWT.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
