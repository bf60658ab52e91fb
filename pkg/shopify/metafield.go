package shopify

import (
	"context"
	"fmt"
)

// Metafield 商品 metafield
type Metafield struct {
	ID        int64  `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type metafieldsResponse struct {
	Metafields []Metafield `json:"metafields"`
}

// ListMetafields 获取商品的全部 metafield
func (c *Client) ListMetafields(ctx context.Context, productID int64) ([]Metafield, error) {
	url := fmt.Sprintf("%s/products/%d/metafields.json", c.baseURL(), productID)

	var resp metafieldsResponse
	if _, err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list metafields for product %d failed: %w", productID, err)
	}
	return resp.Metafields, nil
}

// GetMetafieldValue 按 namespace.key 查找 metafield 值，未找到返回空串
func (c *Client) GetMetafieldValue(ctx context.Context, productID int64, namespace, key string) (string, error) {
	metafields, err := c.ListMetafields(ctx, productID)
	if err != nil {
		return "", err
	}
	for _, m := range metafields {
		if m.Namespace == namespace && m.Key == key {
			return m.Value, nil
		}
	}
	return "", nil
}
