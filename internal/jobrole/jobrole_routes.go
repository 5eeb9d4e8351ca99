package jobrole

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
	jobRoles := r.Group("/job-roles")
	jobRoles.Use(middleware.AuthMiddleware())
	{
		jobRoles.GET("", middleware.RBACAuthorize(rbacService, "jobrole", "read"), handler.GetAll)
		jobRoles.POST("", middleware.RBACAuthorize(rbacService, "jobrole", "create"), handler.Create)
		jobRoles.GET("/:id", middleware.RBACAuthorize(rbacService, "jobrole", "read"), handler.GetByID)
		jobRoles.PUT("/:id", middleware.RBACAuthorize(rbacService, "jobrole", "update"), handler.Update)
		jobRoles.DELETE("/:id", middleware.RBACAuthorize(rbacService, "jobrole", "delete"), handler.Delete)
	}
}
