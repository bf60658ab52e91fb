package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// Sales Channel 发布状态走 GraphQL，REST 没有对应资源

const publicationsQuery = `
query productPublications($id: ID!) {
  product(id: $id) {
    resourcePublicationsV2(first: 20) {
      edges {
        node {
          publication { id name }
          isPublished
        }
      }
    }
  }
  publications(first: 20) {
    edges {
      node { id name }
    }
  }
}`

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type publicationsGraphQLResponse struct {
	Data struct {
		Product *struct {
			ResourcePublicationsV2 struct {
				Edges []struct {
					Node struct {
						Publication struct {
							ID   string `json:"id"`
							Name string `json:"name"`
						} `json:"publication"`
						IsPublished bool `json:"isPublished"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"resourcePublicationsV2"`
		} `json:"product"`
		Publications struct {
			Edges []struct {
				Node struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"publications"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ListPublicationStatus 查询商品在各 Sales Channel 的发布状态
// 店铺的全部通路都会出现在结果中，未发布的 Published=false
func (c *Client) ListPublicationStatus(ctx context.Context, productID int64) ([]model.PublicationStatus, error) {
	url := fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/graphql.json", c.shop, c.apiVersion)

	req := graphqlRequest{
		Query: publicationsQuery,
		Variables: map[string]interface{}{
			"id": fmt.Sprintf("gid://shopify/Product/%d", productID),
		},
	}

	body, _, err := c.doRequest(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, fmt.Errorf("query publications for product %d failed: %w", productID, err)
	}

	var resp publicationsGraphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal graphql response failed: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", resp.Errors[0].Message)
	}
	if resp.Data.Product == nil {
		return nil, fmt.Errorf("product %d not found", productID)
	}

	published := make(map[string]bool)
	for _, edge := range resp.Data.Product.ResourcePublicationsV2.Edges {
		if edge.Node.IsPublished {
			published[edge.Node.Publication.ID] = true
		}
	}

	statuses := make([]model.PublicationStatus, 0, len(resp.Data.Publications.Edges))
	for _, edge := range resp.Data.Publications.Edges {
		statuses = append(statuses, model.PublicationStatus{
			ID:        edge.Node.ID,
			Name:      edge.Node.Name,
			Published: published[edge.Node.ID],
		})
	}

	return statuses, nil
}
