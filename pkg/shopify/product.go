package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// ErrRateLimited Shopify API 限流（429）
var ErrRateLimited = errors.New("shopify api rate limited")

// linkNextRe 从 Link header 提取下一页地址
var linkNextRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

type productsResponse struct {
	Products []model.Product `json:"products"`
}

type productResponse struct {
	Product model.Product `json:"product"`
}

// ListProducts 拉取全量商品快照（自动翻页，每页 250）
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	url := fmt.Sprintf("%s/products.json?limit=250", c.baseURL())

	var all []model.Product
	for url != "" {
		var resp productsResponse
		header, err := c.get(ctx, url, &resp)
		if err != nil {
			return nil, fmt.Errorf("list products failed: %w", err)
		}
		all = append(all, resp.Products...)
		url = nextPageURL(header)
	}

	return all, nil
}

// GetProduct 获取单个商品
func (c *Client) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	url := fmt.Sprintf("%s/products/%d.json", c.baseURL(), productID)

	var resp productResponse
	if _, err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("get product %d failed: %w", productID, err)
	}
	return &resp.Product, nil
}

// UpdateProduct 更新商品字段（只传需要修改的字段）
func (c *Client) UpdateProduct(ctx context.Context, productID int64, fields map[string]interface{}) error {
	url := fmt.Sprintf("%s/products/%d.json", c.baseURL(), productID)

	fields["id"] = productID
	body := map[string]interface{}{"product": fields}

	if _, _, err := c.doRequest(ctx, http.MethodPut, url, body); err != nil {
		return fmt.Errorf("update product %d failed: %w", productID, err)
	}
	return nil
}

// DeleteProduct 删除商品
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	url := fmt.Sprintf("%s/products/%d.json", c.baseURL(), productID)

	if _, _, err := c.doRequest(ctx, http.MethodDelete, url, nil); err != nil {
		return fmt.Errorf("delete product %d failed: %w", productID, err)
	}
	return nil
}

// nextPageURL 解析 Link header 的 rel="next" 地址，无下一页返回空串
func nextPageURL(header http.Header) string {
	link := header.Get("Link")
	if link == "" {
		return ""
	}
	m := linkNextRe.FindStringSubmatch(link)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
