// Package identity defines the port to the external identity provider. The
// core only ever references provider records by opaque id; the provider owns
// their full state.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// AttrEmployeeID is the custom attribute linking a provider identity back to
// the employee aggregate. Lifecycle sync resolves identities through it
// rather than trusting the locally stored link.
const (
	AttrEmployeeID    = "employeeId"
	AttrTaxID         = "taxId"
	AttrCompanyID     = "companyId"
	AttrReactivatedAt = "reactivatedAt"
)

var (
	// ErrUnauthorized means the admin credential was rejected. Callers must
	// invalidate the credential cache and acquire a fresh token; there is no
	// automatic refresh-and-retry at this layer.
	ErrUnauthorized = errors.New("identity: admin credential rejected")

	// ErrConflict means the provider already holds an identity with the
	// requested username.
	ErrConflict = errors.New("identity: username already exists")
)

// GatewayError wraps provider/network failures with the failing operation.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("identity gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Identity is the provider's view of an account, reduced to what the core
// reads. Never cached or mirrored locally.
type Identity struct {
	ID         string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Enabled    bool
	Attributes map[string]string
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway_mock.go -package=mock
type Gateway interface {
	CreateIdentity(ctx context.Context, username, email, firstName, lastName string, attrs map[string]string) (string, error)
	// FindByUsername returns (nil, nil) when no identity matches; absence is
	// a normal outcome, not an error.
	FindByUsername(ctx context.Context, username string) (*Identity, error)
	FindByAttribute(ctx context.Context, name, value string) ([]Identity, error)
	Enable(ctx context.Context, id string) error
	Disable(ctx context.Context, id string) error
	SetAttribute(ctx context.Context, id, name, value string) error
	AssignRoles(ctx context.Context, id string, roleNames []string) error
	AddToGroup(ctx context.Context, id, groupID string) error
	SendCredentialSetupNotification(ctx context.Context, id string) error
}

// TokenSource acquires a fresh admin bearer credential from the provider.
type TokenSource interface {
	AcquireAdminCredential(ctx context.Context) (string, error)
}
