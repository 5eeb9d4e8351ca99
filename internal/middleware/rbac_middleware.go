package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junicoVilela/people-flow-api-sub000/internal/rbac"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/contextutil"
)

// RBACService is a local interface so any enforcer implementation fits.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := contextutil.GetActor(c.Request.Context())

		if actor.EmployeeID == "" || actor.TenantID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			EmployeeID: actor.EmployeeID,
			TenantID:   actor.TenantID,
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "Você não tem permissão para acessar este recurso",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
