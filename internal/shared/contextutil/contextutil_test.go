package contextutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/contextutil"
)

func TestGetLogger_ReturnsInjectedLogger(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	injected := zap.New(core)

	ctx := contextutil.WithLogger(context.Background(), injected)

	log := contextutil.GetLogger(ctx, zap.NewNop())
	log.Info("correlated entry")

	assert.Equal(t, 1, recorded.Len())
	assert.Equal(t, "correlated entry", recorded.All()[0].Message)
}

func TestGetLogger_FallsBackToDefault(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	fallback := zap.New(core)

	log := contextutil.GetLogger(context.Background(), fallback)
	log.Info("component entry")

	assert.Equal(t, 1, recorded.Len())
}

func TestGetLogger_NeverNil(t *testing.T) {
	log := contextutil.GetLogger(nil, nil)

	assert.NotNil(t, log)
	log.Info("discarded")
}

func TestActorRoundTrip(t *testing.T) {
	actor := contextutil.Actor{UserID: "u1", EmployeeID: "e1", TenantID: "t1"}

	ctx := contextutil.WithActor(context.Background(), actor)

	assert.Equal(t, actor, contextutil.GetActor(ctx))
	assert.Equal(t, contextutil.Actor{}, contextutil.GetActor(context.Background()))
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")

	assert.Equal(t, "req-1", contextutil.GetRequestID(ctx))
	assert.Equal(t, "", contextutil.GetRequestID(context.Background()))
}
