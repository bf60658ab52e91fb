package business

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omishoninjp-sys/shopifychecker/internal/check"
	"github.com/omishoninjp-sys/shopifychecker/internal/config"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/pkg/errorutil"
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
	products     []model.Product
	collections  []model.Collection
	collects     map[int64][]int64
	metafields   map[int64]string
	publications map[int64][]model.PublicationStatus

	metafieldErr    error
	publicationsErr error

	deleted []int64
	updates map[int64]map[string]interface{}
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

func (s *stubShop) ListCollections(ctx context.Context) ([]model.Collection, error) {
	return s.collections, nil
}

func (s *stubShop) ListProductCollectionIDs(ctx context.Context, productID int64) ([]int64, error) {
	return s.collects[productID], nil
}

func (s *stubShop) GetMetafieldValue(ctx context.Context, productID int64, namespace, key string) (string, error) {
	if s.metafieldErr != nil {
		return "", s.metafieldErr
	}
	return s.metafields[productID], nil
}

func (s *stubShop) ListPublicationStatus(ctx context.Context, productID int64) ([]model.PublicationStatus, error) {
	if s.publicationsErr != nil {
		return nil, s.publicationsErr
	}
	return s.publications[productID], nil
}

func (s *stubShop) UpdateProduct(ctx context.Context, productID int64, fields map[string]interface{}) error {
	if s.updates == nil {
		s.updates = make(map[int64]map[string]interface{})
	}
	s.updates[productID] = fields
	return nil
}

func (s *stubShop) DeleteProduct(ctx context.Context, productID int64) error {
	s.deleted = append(s.deleted, productID)
	return nil
}

func testCheckConfig() config.CheckConfig {
	return config.CheckConfig{
		Brands: []string{"虎屋羊羹", "小倉山莊"},
		Keywords: []config.KeywordMapping{
			{Keyword: "羊羹", Category: "和菓子"},
		},
		ExcludedCollections: []string{"All Products"},
		MetafieldNamespace:  "custom",
		MetafieldKey:        "link",
	}
}

func floatPtr(f float64) *float64 { return &f }

func cleanProduct(id int64) model.Product {
	return model.Product{
		ID:          id,
		Title:       "虎屋羊羹 夜之梅",
		BodyHTML:    "<p>經典羊羹</p>",
		Handle:      "toraya-yokan",
		Status:      model.ProductStatusActive,
		ProductType: "和菓子",
		Variants: []model.Variant{
			{Title: "Default", Weight: floatPtr(250), Price: "680", SKU: "TY-001"},
		},
		Images: []model.Image{{ID: 1, Src: "https://cdn.example.com/1.jpg"}},
	}
}

// stubPublisher 可编程的回调发布桩
type stubPublisher struct {
	err       error
	queue     string
	published [][]byte
}

func (s *stubPublisher) Publish(queue string, data []byte, ttl, delay uint32) error {
	if s.err != nil {
		return s.err
	}
	s.queue = queue
	s.published = append(s.published, data)
	return nil
}

func newTestCheckService(shop *stubShop) *CheckService {
	return NewCheckService(shop, shop, shop, shop, testCheckConfig(), nil, nil, "", nopLogger{})
}

func TestRunFullCheck(t *testing.T) {
	p1 := cleanProduct(1)
	p2 := cleanProduct(2)
	p2.Handle = "toraya-yokan-1"
	p2.Variants[0].SKU = "" // 一个问题

	shop := &stubShop{
		products:    []model.Product{p1, p2},
		collections: []model.Collection{{ID: 10, Title: "虎屋羊羹"}, {ID: 99, Title: "All Products"}},
		collects:    map[int64][]int64{1: {10, 99}, 2: {10, 99}},
		metafields:  map[int64]string{1: "https://example.com", 2: "https://example.com"},
		publications: map[int64][]model.PublicationStatus{
			1: {{Name: "Online Store", Published: true}},
			2: {{Name: "Online Store", Published: true}},
		},
	}

	svc := newTestCheckService(shop)
	run, err := svc.RunFullCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, run.TotalProducts)
	assert.Equal(t, 1, run.ProductsWithIssues)
	assert.Equal(t, 1, run.TotalIssues)
	assert.NotEmpty(t, run.CheckTime)
	require.Len(t, run.Products, 1)
	assert.Equal(t, int64(2), run.Products[0].ProductID)
	assert.Equal(t, "SKU 空白", run.Products[0].Findings[0].Message)
}

func TestRunFullCheckExcludedCollections(t *testing.T) {
	// 只归属于 All Products 的商品视为未归属品牌 Collection
	p := cleanProduct(1)
	shop := &stubShop{
		products:    []model.Product{p},
		collections: []model.Collection{{ID: 10, Title: "虎屋羊羹"}, {ID: 99, Title: "All Products"}},
		collects:    map[int64][]int64{1: {99}},
		metafields:  map[int64]string{1: "https://example.com"},
		publications: map[int64][]model.PublicationStatus{
			1: {{Name: "Online Store", Published: true}},
		},
	}

	svc := newTestCheckService(shop)
	run, err := svc.RunFullCheck(context.Background())
	require.NoError(t, err)

	require.Len(t, run.Products, 1)
	assert.Equal(t, "未分類到對應品牌 Collection", run.Products[0].Findings[0].Message)
	assert.Contains(t, run.Products[0].Findings[0].Detail, "無")
}

func TestRunFullCheckUnavailableDataSkipsRules(t *testing.T) {
	// metafield / publications 拉取失败时对应规则跳过，不产生误报
	p := cleanProduct(1)
	shop := &stubShop{
		products:        []model.Product{p},
		collections:     []model.Collection{{ID: 10, Title: "虎屋羊羹"}},
		collects:        map[int64][]int64{1: {10}},
		metafieldErr:    errors.New("api unavailable"),
		publicationsErr: errors.New("api unavailable"),
	}

	svc := newTestCheckService(shop)
	run, err := svc.RunFullCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, run.ProductsWithIssues)
}

func TestRunFullCheckEmptyCatalog(t *testing.T) {
	shop := &stubShop{}
	svc := newTestCheckService(shop)

	_, err := svc.RunFullCheck(context.Background())
	assert.ErrorIs(t, err, check.ErrEmptyCatalog)
}

func TestExecuteCheckPublishesCallback(t *testing.T) {
	p := cleanProduct(1)
	shop := &stubShop{
		products:    []model.Product{p},
		collections: []model.Collection{{ID: 10, Title: "虎屋羊羹"}},
		collects:    map[int64][]int64{1: {10}},
		metafields:  map[int64]string{1: "https://example.com"},
		publications: map[int64][]model.PublicationStatus{
			1: {{Name: "Online Store", Published: true}},
		},
	}
	pub := &stubPublisher{}
	svc := NewCheckService(shop, shop, shop, shop, testCheckConfig(), nil, pub, "catalog_check_callback", nopLogger{})

	job := &model.CatalogCheckData{
		RequestID: "req-1",
		Data:      model.CatalogCheckBusinessData{CheckID: "chk-1"},
	}
	require.NoError(t, svc.ExecuteCheck(context.Background(), job))

	assert.Equal(t, "catalog_check_callback", pub.queue)
	require.Len(t, pub.published, 1)

	var callback model.CheckCallback
	require.NoError(t, json.Unmarshal(pub.published[0], &callback))
	assert.Equal(t, "chk-1", callback.CheckID)
	assert.Equal(t, model.CallbackStatusSuccess, callback.Status)
	require.NotNil(t, callback.Result)
	assert.Equal(t, 1, callback.Result.TotalProducts)
}

func TestExecuteCheckFailedRunStillPublishes(t *testing.T) {
	// 体检本身失败时仍发送 FAILED 回调，DB 记录由消费侧标记失败
	shop := &stubShop{}
	pub := &stubPublisher{}
	svc := NewCheckService(shop, shop, shop, shop, testCheckConfig(), nil, pub, "catalog_check_callback", nopLogger{})

	job := &model.CatalogCheckData{Data: model.CatalogCheckBusinessData{CheckID: "chk-2"}}
	require.NoError(t, svc.ExecuteCheck(context.Background(), job))

	require.Len(t, pub.published, 1)
	var callback model.CheckCallback
	require.NoError(t, json.Unmarshal(pub.published[0], &callback))
	assert.Equal(t, model.CallbackStatusFailed, callback.Status)
	assert.NotEmpty(t, callback.Error)
	assert.Nil(t, callback.Result)
}

func TestExecuteCheckPublishFailureIsRetryable(t *testing.T) {
	// 回调发布失败必须返回可重试错误：任务 Release 后重投，
	// 而不是被 Bury 丢弃导致记录永久 RUNNING
	p := cleanProduct(1)
	shop := &stubShop{
		products:    []model.Product{p},
		collections: []model.Collection{{ID: 10, Title: "虎屋羊羹"}},
		collects:    map[int64][]int64{1: {10}},
		metafields:  map[int64]string{1: "https://example.com"},
		publications: map[int64][]model.PublicationStatus{
			1: {{Name: "Online Store", Published: true}},
		},
	}
	pub := &stubPublisher{err: errors.New("connection refused")}
	svc := NewCheckService(shop, shop, shop, shop, testCheckConfig(), nil, pub, "catalog_check_callback", nopLogger{})

	job := &model.CatalogCheckData{Data: model.CatalogCheckBusinessData{CheckID: "chk-3"}}
	err := svc.ExecuteCheck(context.Background(), job)
	require.Error(t, err)

	var e *errorutil.Error
	require.ErrorAs(t, err, &e)
	assert.True(t, e.Retryable)
}
