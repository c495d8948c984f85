package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tharu616/shopping-mall-platform-sub001/internal/domain"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/transport"
)

// CartClient maps each cart operation onto exactly one request. The
// bodies of write responses are ignored; the cache re-reads the cart
// after every successful write instead of trusting them.
type CartClient struct {
	t *transport.Client
}

func NewCartClient(t *transport.Client) *CartClient {
	return &CartClient{t: t}
}

func (c *CartClient) Get(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.t.Do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *CartClient) AddItem(ctx context.Context, productID int64, quantity int) error {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	return c.t.Do(ctx, http.MethodPost, "/cart/items", body, nil)
}

func (c *CartClient) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	body := map[string]interface{}{"quantity": quantity}
	return c.t.Do(ctx, http.MethodPatch, fmt.Sprintf("/cart/items/%d", itemID), body, nil)
}

func (c *CartClient) RemoveItem(ctx context.Context, itemID int64) error {
	return c.t.Do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, nil)
}

func (c *CartClient) Clear(ctx context.Context) error {
	return c.t.Do(ctx, http.MethodDelete, "/cart", nil, nil)
}

func (c *CartClient) Checkout(ctx context.Context, shippingAddress string) error {
	body := map[string]string{"shippingAddress": shippingAddress}
	return c.t.Do(ctx, http.MethodPost, "/cart/checkout", body, nil)
}
