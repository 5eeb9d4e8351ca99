package company

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
	companies := r.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("", middleware.RBACAuthorize(rbacService, "company", "read"), handler.GetAll)
		companies.POST("", middleware.RBACAuthorize(rbacService, "company", "create"), handler.Create)
		companies.GET("/:id", middleware.RBACAuthorize(rbacService, "company", "read"), handler.GetByID)
		companies.PUT("/:id", middleware.RBACAuthorize(rbacService, "company", "update"), handler.Update)
		companies.DELETE("/:id", middleware.RBACAuthorize(rbacService, "company", "delete"), handler.Delete)
	}
}
