package business

import (
	"context"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/pkg/lmstfy"
	"github.com/omishoninjp-sys/shopifychecker/pkg/shopify"
)

// CatalogAccessor 商品快照读取
type CatalogAccessor interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, productID int64) (*model.Product, error)
}

// CollectionAccessor Collection 归属读取
type CollectionAccessor interface {
	ListCollections(ctx context.Context) ([]model.Collection, error)
	ListProductCollectionIDs(ctx context.Context, productID int64) ([]int64, error)
}

// MetafieldAccessor metafield 读取
type MetafieldAccessor interface {
	GetMetafieldValue(ctx context.Context, productID int64, namespace, key string) (string, error)
}

// PublicationAccessor Sales Channel 发布状态读取
type PublicationAccessor interface {
	ListPublicationStatus(ctx context.Context, productID int64) ([]model.PublicationStatus, error)
}

// CatalogMutator 商品写操作（自动修复、清理副本用）
type CatalogMutator interface {
	UpdateProduct(ctx context.Context, productID int64, fields map[string]interface{}) error
	DeleteProduct(ctx context.Context, productID int64) error
}

// Translator 翻译服务
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	TranslateHTML(ctx context.Context, html string) (string, error)
}

// CallbackPublisher 回调消息发布
type CallbackPublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}

// shopify.Client 同时实现全部读写接口
var (
	_ CatalogAccessor     = (*shopify.Client)(nil)
	_ CollectionAccessor  = (*shopify.Client)(nil)
	_ MetafieldAccessor   = (*shopify.Client)(nil)
	_ PublicationAccessor = (*shopify.Client)(nil)
	_ CatalogMutator      = (*shopify.Client)(nil)

	_ CallbackPublisher = (*lmstfy.Client)(nil)
)
