package keycloak_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/identity"
	"github.com/junicoVilela/people-flow-api-sub000/internal/identity/keycloak"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, handler http.Handler) *keycloak.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := keycloak.NewClient(keycloak.Config{
		BaseURL:      srv.URL,
		Realm:        "hr",
		ClientID:     "hr-backend",
		ClientSecret: "secret",
	}, zap.NewNop())
	client.UseTokenProvider(staticToken("admin-token"))

	return client
}

func TestClient_AcquireAdminCredential(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realms/hr/protocol/openid-connect/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "hr-backend", r.PostForm.Get("client_id"))

		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh-token"})
	}))

	token, err := client.AcquireAdminCredential(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestClient_AcquireAdminCredential_RejectedGrant(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.AcquireAdminCredential(context.Background())

	var gwErr *identity.GatewayError
	assert.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "acquire_credential", gwErr.Op)
}

func TestClient_CreateIdentity_ReadsLocationHeader(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/realms/hr/users", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ana.souza", payload["username"])
		assert.Equal(t, true, payload["enabled"])

		w.Header().Set("Location", r.Host+"/admin/realms/hr/users/kc-42")
		w.WriteHeader(http.StatusCreated)
	}))

	id, err := client.CreateIdentity(context.Background(),
		"ana.souza", "ana@acme.com", "Ana", "Souza",
		map[string]string{"employee_id": "emp-1"})

	assert.NoError(t, err)
	assert.Equal(t, "kc-42", id)
}

func TestClient_CreateIdentity_Conflict(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	_, err := client.CreateIdentity(context.Background(), "ana.souza", "", "", "", nil)

	assert.ErrorIs(t, err, identity.ErrConflict)
}

func TestClient_FindByUsername_ExactMatchOnly(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ana.souza", r.URL.Query().Get("username"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "kc-1", "username": "ana.souza.backup", "enabled": true},
			{"id": "kc-2", "username": "Ana.Souza", "enabled": true,
				"attributes": map[string][]string{"employee_id": {"emp-1", "ignored"}}},
		})
	}))

	found, err := client.FindByUsername(context.Background(), "ana.souza")

	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, "kc-2", found.ID)
	assert.True(t, found.Enabled)
	assert.Equal(t, "emp-1", found.Attributes["employee_id"])
}

func TestClient_FindByUsername_NoMatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))

	found, err := client.FindByUsername(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestClient_Disable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/realms/hr/users/kc-1", r.URL.Path)

		var payload map[string]bool
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.False(t, payload["enabled"])

		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.Disable(context.Background(), "kc-1"))
}

func TestClient_SetAttribute_PreservesSiblings(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":       "kc-1",
				"username": "ana.souza",
				"attributes": map[string][]string{
					"department": {"engineering"},
				},
			})
		case http.MethodPut:
			var payload struct {
				Attributes map[string][]string `json:"attributes"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, []string{"engineering"}, payload.Attributes["department"])
			assert.Equal(t, []string{"emp-1"}, payload.Attributes["employee_id"])
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	err := client.SetAttribute(context.Background(), "kc-1", "employee_id", "emp-1")

	assert.NoError(t, err)
}

func TestClient_AssignRoles_ResolvesThenMaps(t *testing.T) {
	var mapped []map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/realms/hr/roles/hr-viewer":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "role-7", "name": "hr-viewer"})
		case r.Method == http.MethodPost && r.URL.Path == "/admin/realms/hr/users/kc-1/role-mappings/realm":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&mapped))
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
	}))

	err := client.AssignRoles(context.Background(), "kc-1", []string{"hr-viewer"})

	assert.NoError(t, err)
	assert.Equal(t, []map[string]string{{"id": "role-7", "name": "hr-viewer"}}, mapped)
}

func TestClient_ExpiredCredentialSurfacesUnauthorized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.Enable(context.Background(), "kc-1")

	assert.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestClient_TokenProviderFailureShortCircuits(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	client.UseTokenProvider(failingToken{})

	err := client.Enable(context.Background(), "kc-1")

	assert.Error(t, err)
	assert.False(t, called)
}

type failingToken struct{}

func (failingToken) Token(ctx context.Context) (string, error) {
	return "", errors.New("credential store unavailable")
}
