package bootstrap

import "context"

// AuditLog is one operator-relevant lifecycle fact about the process itself,
// kept separate from request logging.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
