package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client 翻译服务客户端
// 服务本身是外部黑盒，这里只负责传参与取结果
type Client struct {
	endpoint   string
	apiKey     string
	sourceLang string
	targetLang string
	httpClient *http.Client
}

// NewClient 创建翻译客户端
func NewClient(endpoint, apiKey, sourceLang, targetLang string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		sourceLang: sourceLang,
		targetLang: targetLang,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	HTML       bool   `json:"html"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// Translate 翻译纯文本
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	return c.translate(ctx, text, false)
}

// TranslateHTML 翻译 HTML 片段（保留标记结构）
func (c *Client) TranslateHTML(ctx context.Context, html string) (string, error) {
	return c.translate(ctx, html, true)
}

func (c *Client) translate(ctx context.Context, text string, html bool) (string, error) {
	if text == "" {
		return "", nil
	}

	reqBody, err := json.Marshal(translateRequest{
		Text:       text,
		SourceLang: c.sourceLang,
		TargetLang: c.targetLang,
		HTML:       html,
	})
	if err != nil {
		return "", fmt.Errorf("marshal translate request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create translate request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read translate response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate api status %d: %s", resp.StatusCode, string(body))
	}

	var result translateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal translate response failed: %w", err)
	}
	if result.TranslatedText == "" {
		return "", fmt.Errorf("translate api returned empty result")
	}

	return result.TranslatedText, nil
}
