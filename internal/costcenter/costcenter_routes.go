package costcenter

import (
	"github.com/gin-gonic/gin"

	"github.com/junicoVilela/people-flow-api-sub000/internal/middleware"
	"github.com/junicoVilela/people-flow-api-sub000/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	costCenters := r.Group("/cost-centers")
	costCenters.Use(middleware.AuthMiddleware())
	{
		costCenters.GET("", middleware.RBACAuthorize(rbacService, "costcenter", "read"), handler.GetAll)
		costCenters.POST("", middleware.RBACAuthorize(rbacService, "costcenter", "create"), handler.Create)
		costCenters.GET("/:id", middleware.RBACAuthorize(rbacService, "costcenter", "read"), handler.GetByID)
		costCenters.PUT("/:id", middleware.RBACAuthorize(rbacService, "costcenter", "update"), handler.Update)
		costCenters.DELETE("/:id", middleware.RBACAuthorize(rbacService, "costcenter", "delete"), handler.Delete)
	}
}
