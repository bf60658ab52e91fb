package model

import "strings"

// Product 商品快照（Shopify Admin REST products.json 结构的子集）
// 由边界层拉取，核心引擎只读
type Product struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	BodyHTML       string    `json:"body_html"`
	Handle         string    `json:"handle"`
	Status         string    `json:"status"`       // active / draft / archived
	ProductType    string    `json:"product_type"` // 商品分類（taxonomy category）
	Tags           string    `json:"tags"`         // 逗号分隔
	Variants       []Variant `json:"variants"`
	Images         []Image   `json:"images"`
	SEOTitle       string    `json:"metafields_global_title_tag"`
	SEODescription string    `json:"metafields_global_description_tag"`
}

// Variant 商品变体
type Variant struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Weight              *float64 `json:"weight"`
	Price               string   `json:"price"` // Shopify 以字符串返回金额
	SKU                 string   `json:"sku"`
	InventoryManagement string   `json:"inventory_management"` // "shopify" 表示开启库存追踪
}

// Image 商品图片引用
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// 商品状态常量
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// 库存追踪标记
const InventoryManagementShopify = "shopify"

// PrimaryVariant 返回首个变体（体检策略：多变体商品只评估首变体）
func (p *Product) PrimaryVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// TagList 拆分 tags 字段为标签列表（去除首尾空白，跳过空标签）
func (p *Product) TagList() []string {
	if strings.TrimSpace(p.Tags) == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, t := range parts {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// VariantTitle 变体显示名（无标题时回退为 Default，与后台展示一致）
func (v *Variant) VariantTitle() string {
	if v == nil || v.Title == "" {
		return "Default"
	}
	return v.Title
}

// Collection 品牌 Collection / 分类集合
type Collection struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// PublicationStatus 单个销售通路的发布状态
type PublicationStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Published bool   `json:"published"`
}
