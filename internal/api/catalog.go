package api

import (
	"context"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/tharu616/shopping-mall-platform-sub001/internal/domain"
	"github.com/tharu616/shopping-mall-platform-sub001/internal/transport"
)

type CatalogClient struct {
	t   *transport.Client
	sfg singleflight.Group // collapses concurrent listing fetches
}

func NewCatalogClient(t *transport.Client) *CatalogClient {
	return &CatalogClient{t: t}
}

func (c *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		var products []domain.Product
		if err := c.t.Do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
			return nil, err
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}
