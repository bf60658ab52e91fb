package duplicate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/omishoninjp-sys/shopifychecker/internal/business"
	"github.com/omishoninjp-sys/shopifychecker/internal/config"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// nopLogger 测试用空日志
type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

// stubShop 可编程的店铺数据桩
type stubShop struct {
	products []model.Product
}

func (s *stubShop) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products, nil
}

func (s *stubShop) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	for i := range s.products {
		if s.products[i].ID == productID {
			return &s.products[i], nil
		}
	}
	return nil, errors.New("product not found")
}

func (s *stubShop) UpdateProduct(ctx context.Context, productID int64, fields map[string]interface{}) error {
	return nil
}

func (s *stubShop) DeleteProduct(ctx context.Context, productID int64) error {
	return nil
}

func (s *stubShop) Translate(ctx context.Context, text string) (string, error) {
	return text, nil
}

func (s *stubShop) TranslateHTML(ctx context.Context, html string) (string, error) {
	return html, nil
}

func newTestRouter(shop *stubShop) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := business.NewRemediationService(shop, shop, shop, config.CheckConfig{}, nopLogger{})
	h := NewDuplicateHandler(svc)

	r := gin.New()
	r.POST("/api/v1/duplicates/scan", h.Scan)
	return r
}

func TestScanEmptyCatalogIsServerError(t *testing.T) {
	// 空目录不能当成「无副本」的成功结果返回
	r := newTestRouter(&stubShop{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/duplicates/scan", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "catalog snapshot is empty")
}

func TestScanReturnsCandidates(t *testing.T) {
	r := newTestRouter(&stubShop{
		products: []model.Product{
			{ID: 1, Handle: "toraya-yokan", Title: "虎屋羊羹"},
			{ID: 2, Handle: "toraya-yokan-1", Title: "虎屋羊羹"},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/duplicates/scan", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), "toraya-yokan-1")
}
