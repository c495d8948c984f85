package api

import (
	"context"
	"net/http"

	"github.com/tharu616/shopping-mall-platform-sub001/internal/domain"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/transport"
)

type UserClient struct {
	t *transport.Client
}

func NewUserClient(t *transport.Client) *UserClient {
	return &UserClient{t: t}
}

func (c *UserClient) Me(ctx context.Context) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.t.Do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *UserClient) UpdateMe(ctx context.Context, fullName string) (*domain.UserProfile, error) {
	body := map[string]string{"fullName": fullName}
	var profile domain.UserProfile
	if err := c.t.Do(ctx, http.MethodPut, "/users/me", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
