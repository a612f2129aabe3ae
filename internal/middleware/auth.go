package middleware

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/exampool/exam-service/internal/config"
	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/services"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// InitAuth configures the Casdoor SDK from service config. Must be called
// once before the middleware is installed.
func InitAuth(cfg *config.Config) {
	casdoorsdk.InitConfig(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
}

// Authenticate parses the bearer token and stores the resulting actor in the
// request context. Requests without a token proceed unauthenticated; the
// role guards decide what they may reach.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		claims, err := casdoorsdk.ParseJwtToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		role := models.RoleTestTaker
		if claims.User.IsAdmin {
			role = models.RoleAdmin
		}

		c.Set(actorKey, services.Actor{
			ID:   claims.User.Id,
			Role: role,
		})
		c.Next()
	}
}

// RequireAdmin rejects requests whose actor is not an admin. It fails
// closed: no actor means no access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "UNAUTHORIZED ACCESS.",
			})
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated actor of the request, if any.
func GetActor(c *gin.Context) (services.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := value.(services.Actor)
	return actor, ok
}
