package api

import (
	"context"
	"net/http"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/tharu616/shopping-mall-platform-sub001/internal/domain"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/transport"
)

type AuthClient struct {
	t *transport.Client
}

func NewAuthClient(t *transport.Client) *AuthClient {
	return &AuthClient{t: t}
}

type authResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login exchanges credentials for a token. A 2xx response without a
// token is a protocol violation, never a half-initialized session.
// The role comes from the response when present, otherwise from the
// token's role claim, otherwise it defaults to CUSTOMER.
func (c *AuthClient) Login(ctx context.Context, email, password string) (string, domain.Role, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.t.Do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", "", err
	}
	if resp.Token == "" {
		return "", "", transport.NewProtocolViolation("login response missing token")
	}
	if role, ok := domain.ParseRole(resp.Role); ok {
		return resp.Token, role, nil
	}
	if role, ok := roleFromToken(resp.Token); ok {
		return resp.Token, role, nil
	}
	return resp.Token, domain.RoleCustomer, nil
}

type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"fullName"`
	Role     domain.Role `json:"role"`
}

// Register creates an account and returns its token. The server echoes
// no role back; the caller establishes the session with the role it
// submitted.
func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp authResponse
	if err := c.t.Do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", transport.NewProtocolViolation("register response missing token")
	}
	return resp.Token, nil
}

// roleFromToken reads the role claim without verifying the signature.
// The client holds no signing secret; the server stays authoritative on
// every protected call regardless of what the claim says.
func roleFromToken(token string) (domain.Role, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", false
	}
	raw, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	return domain.ParseRole(raw)
}
