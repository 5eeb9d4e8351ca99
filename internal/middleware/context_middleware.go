package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/contextutil"
)

// ContextLogger attaches a request-scoped logger carrying the request id and
// actor, so services and listeners log with correlation fields without
// knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		actor := contextutil.GetActor(c.Request.Context())

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("user_id", actor.UserID),
			zap.String("tenant_id", actor.TenantID),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
