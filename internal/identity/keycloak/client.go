// Package keycloak adapts the identity.Gateway port onto Keycloak's admin
// REST API. Only the handful of endpoints the core needs are covered.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/identity"
)

type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
}

// TokenProvider supplies the admin bearer credential for each call. Wired to
// *identity.CredentialCache in production.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	cfg    Config
	http   *http.Client
	tokens TokenProvider
	logger *zap.Logger
}

func NewClient(cfg Config, logger ...*zap.Logger) *Client {
	l := zap.L().Named("identity.keycloak")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.keycloak")
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: l,
	}
}

// UseTokenProvider swaps direct acquisition for the cached credential. Set
// once at wiring time.
func (c *Client) UseTokenProvider(p TokenProvider) {
	c.tokens = p
}

// AcquireAdminCredential implements identity.TokenSource via the client
// credentials grant.
func (c *Client) AcquireAdminCredential(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.cfg.BaseURL, c.cfg.Realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &identity.GatewayError{Op: "acquire_credential", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &identity.GatewayError{Op: "acquire_credential", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &identity.GatewayError{
			Op:  "acquire_credential",
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &identity.GatewayError{Op: "acquire_credential", Err: err}
	}
	if body.AccessToken == "" {
		return "", &identity.GatewayError{Op: "acquire_credential", Err: fmt.Errorf("empty access token")}
	}

	return body.AccessToken, nil
}

// userRepresentation mirrors the subset of Keycloak's user payload the core
// touches. Attributes are lists on the wire; the port flattens to the first
// value.
type userRepresentation struct {
	ID         string              `json:"id,omitempty"`
	Username   string              `json:"username"`
	Email      string              `json:"email,omitempty"`
	FirstName  string              `json:"firstName,omitempty"`
	LastName   string              `json:"lastName,omitempty"`
	Enabled    *bool               `json:"enabled,omitempty"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

func (u userRepresentation) toIdentity() identity.Identity {
	attrs := make(map[string]string, len(u.Attributes))
	for name, values := range u.Attributes {
		if len(values) > 0 {
			attrs[name] = values[0]
		}
	}

	enabled := u.Enabled != nil && *u.Enabled
	return identity.Identity{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Enabled:    enabled,
		Attributes: attrs,
	}
}

func (c *Client) CreateIdentity(
	ctx context.Context,
	username, email, firstName, lastName string,
	attrs map[string]string,
) (string, error) {
	enabled := true
	payload := userRepresentation{
		Username:   username,
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
		Enabled:    &enabled,
		Attributes: toWireAttributes(attrs),
	}

	resp, err := c.do(ctx, http.MethodPost, c.usersURL(""), payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusConflict:
		return "", identity.ErrConflict
	default:
		return "", c.statusError("create_identity", resp)
	}

	// Keycloak returns the new id only in the Location header.
	location := resp.Header.Get("Location")
	id := location[strings.LastIndex(location, "/")+1:]
	if id == "" {
		return "", &identity.GatewayError{Op: "create_identity", Err: fmt.Errorf("missing Location header")}
	}

	return id, nil
}

func (c *Client) FindByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	query := fmt.Sprintf("?username=%s&exact=true", url.QueryEscape(username))
	users, err := c.searchUsers(ctx, "find_by_username", query)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			found := u.toIdentity()
			return &found, nil
		}
	}
	return nil, nil
}

func (c *Client) FindByAttribute(ctx context.Context, name, value string) ([]identity.Identity, error) {
	query := fmt.Sprintf("?q=%s", url.QueryEscape(name+":"+value))
	users, err := c.searchUsers(ctx, "find_by_attribute", query)
	if err != nil {
		return nil, err
	}

	out := make([]identity.Identity, 0, len(users))
	for _, u := range users {
		out = append(out, u.toIdentity())
	}
	return out, nil
}

func (c *Client) Enable(ctx context.Context, id string) error {
	return c.setEnabled(ctx, id, true)
}

func (c *Client) Disable(ctx context.Context, id string) error {
	return c.setEnabled(ctx, id, false)
}

func (c *Client) setEnabled(ctx context.Context, id string, enabled bool) error {
	resp, err := c.do(ctx, http.MethodPut, c.usersURL("/"+id), map[string]bool{"enabled": enabled})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError("set_enabled", resp)
	}
	return nil
}

func (c *Client) SetAttribute(ctx context.Context, id, name, value string) error {
	// Keycloak replaces the whole attribute map on update, so read first and
	// merge to avoid clobbering sibling attributes.
	current, err := c.getUser(ctx, id)
	if err != nil {
		return err
	}

	if current.Attributes == nil {
		current.Attributes = map[string][]string{}
	}
	current.Attributes[name] = []string{value}

	resp, err := c.do(ctx, http.MethodPut, c.usersURL("/"+id), userRepresentation{
		Username:   current.Username,
		Attributes: current.Attributes,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError("set_attribute", resp)
	}
	return nil
}

func (c *Client) AssignRoles(ctx context.Context, id string, roleNames []string) error {
	type roleRepresentation struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	roles := make([]roleRepresentation, 0, len(roleNames))
	for _, name := range roleNames {
		resp, err := c.do(ctx, http.MethodGet,
			fmt.Sprintf("%s/admin/realms/%s/roles/%s", c.cfg.BaseURL, c.cfg.Realm, url.PathEscape(name)), nil)
		if err != nil {
			return err
		}

		var role roleRepresentation
		decodeErr := json.NewDecoder(resp.Body).Decode(&role)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return c.statusError("resolve_role", resp)
		}
		if decodeErr != nil {
			return &identity.GatewayError{Op: "resolve_role", Err: decodeErr}
		}

		roles = append(roles, role)
	}

	resp, err := c.do(ctx, http.MethodPost, c.usersURL("/"+id+"/role-mappings/realm"), roles)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError("assign_roles", resp)
	}
	return nil
}

func (c *Client) AddToGroup(ctx context.Context, id, groupID string) error {
	resp, err := c.do(ctx, http.MethodPut, c.usersURL("/"+id+"/groups/"+groupID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError("add_to_group", resp)
	}
	return nil
}

func (c *Client) SendCredentialSetupNotification(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodPut, c.usersURL("/"+id+"/execute-actions-email"), []string{"UPDATE_PASSWORD"})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError("credential_setup_notification", resp)
	}
	return nil
}

func (c *Client) getUser(ctx context.Context, id string) (*userRepresentation, error) {
	resp, err := c.do(ctx, http.MethodGet, c.usersURL("/"+id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("get_user", resp)
	}

	var user userRepresentation
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &identity.GatewayError{Op: "get_user", Err: err}
	}
	return &user, nil
}

func (c *Client) searchUsers(ctx context.Context, op, query string) ([]userRepresentation, error) {
	resp, err := c.do(ctx, http.MethodGet, c.usersURL(query), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(op, resp)
	}

	var users []userRepresentation
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, &identity.GatewayError{Op: op, Err: err}
	}
	return users, nil
}

func (c *Client) usersURL(suffix string) string {
	return fmt.Sprintf("%s/admin/realms/%s/users%s", c.cfg.BaseURL, c.cfg.Realm, suffix)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &identity.GatewayError{Op: "encode_request", Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &identity.GatewayError{Op: "build_request", Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &identity.GatewayError{Op: method + " " + endpoint, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, identity.ErrUnauthorized
	}

	return resp, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens != nil {
		return c.tokens.Token(ctx)
	}
	return c.AcquireAdminCredential(ctx)
}

func (c *Client) statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.logger.Warn("keycloak call failed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
	)
	return &identity.GatewayError{
		Op:  op,
		Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
	}
}

func toWireAttributes(attrs map[string]string) map[string][]string {
	if len(attrs) == 0 {
		return nil
	}

	wire := make(map[string][]string, len(attrs))
	for name, value := range attrs {
		wire[name] = []string{value}
	}
	return wire
}
