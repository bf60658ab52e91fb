package shopify

import (
	"context"
	"fmt"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

type customCollectionsResponse struct {
	CustomCollections []model.Collection `json:"custom_collections"`
}

type smartCollectionsResponse struct {
	SmartCollections []model.Collection `json:"smart_collections"`
}

type collectsResponse struct {
	Collects []struct {
		ID           int64 `json:"id"`
		CollectionID int64 `json:"collection_id"`
		ProductID    int64 `json:"product_id"`
	} `json:"collects"`
}

// ListCollections 拉取全部 Collection（custom + smart，自动翻页）
func (c *Client) ListCollections(ctx context.Context) ([]model.Collection, error) {
	var all []model.Collection

	url := fmt.Sprintf("%s/custom_collections.json?limit=250", c.baseURL())
	for url != "" {
		var resp customCollectionsResponse
		header, err := c.get(ctx, url, &resp)
		if err != nil {
			return nil, fmt.Errorf("list custom collections failed: %w", err)
		}
		all = append(all, resp.CustomCollections...)
		url = nextPageURL(header)
	}

	url = fmt.Sprintf("%s/smart_collections.json?limit=250", c.baseURL())
	for url != "" {
		var resp smartCollectionsResponse
		header, err := c.get(ctx, url, &resp)
		if err != nil {
			return nil, fmt.Errorf("list smart collections failed: %w", err)
		}
		all = append(all, resp.SmartCollections...)
		url = nextPageURL(header)
	}

	return all, nil
}

// ListProductCollectionIDs 获取商品所属的 Collection ID 列表
// 注意 collects 只覆盖 custom collection，smart collection 的归属由上层
// 结合 ListCollections 的规则判断（本系统店铺只用 custom collection）
func (c *Client) ListProductCollectionIDs(ctx context.Context, productID int64) ([]int64, error) {
	url := fmt.Sprintf("%s/collects.json?product_id=%d&limit=250", c.baseURL(), productID)

	var ids []int64
	for url != "" {
		var resp collectsResponse
		header, err := c.get(ctx, url, &resp)
		if err != nil {
			return nil, fmt.Errorf("list collects for product %d failed: %w", productID, err)
		}
		for _, col := range resp.Collects {
			ids = append(ids, col.CollectionID)
		}
		url = nextPageURL(header)
	}

	return ids, nil
}
