package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client Shopify Admin API 客户端（REST + GraphQL）
type Client struct {
	shop        string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
}

// NewClient 创建 Shopify 客户端
// shop 为店铺前缀（如 fd249b-ba），不含 .myshopify.com
func NewClient(shop, accessToken, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = "2024-01"
	}
	return &Client{
		shop:        shop,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// baseURL REST API 根地址
func (c *Client) baseURL() string {
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", c.shop, c.apiVersion)
}

// doRequest 发起请求并读取响应体
// 返回响应体与响应头（分页需要 Link header）
func (c *Client) doRequest(ctx context.Context, method, url string, body interface{}) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal request body failed: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request failed: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("shopify request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response failed: %w", err)
	}

	// 限流时返回可识别错误供上层重试
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("shopify api status %d: %s", resp.StatusCode, truncateBody(respBody))
	}

	return respBody, resp.Header, nil
}

// get 发起 GET 请求
func (c *Client) get(ctx context.Context, url string, out interface{}) (http.Header, error) {
	body, header, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return header, nil
}

func truncateBody(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
