package check

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// ProductContext 规则引擎的外部输入
// 所有需要额外请求的数据（metafield、collections、publications）由边界层
// 取得后注入，引擎本身不发起网络请求，保证可离线测试。
// HasXxx 为 false 表示该数据未取得，对应规则跳过（不产生发现项，也不算通过）。
type ProductContext struct {
	Collections     []string // 商品所属 collection 名称
	HasCollections  bool
	MetafieldLink   string // 商品连结 metafield 的值
	HasMetafield    bool
	Publications    []model.PublicationStatus // 各销售通路发布状态
	HasPublications bool
}

// Engine 商品体检规则引擎
// 对单个商品执行固定规则组，输出顺序稳定的发现项列表。
// 无内部状态，可并发调用。
type Engine struct {
	brands   *Matcher
	keywords *Matcher
	linkKey  string // metafield 完整键名（namespace.key），用于提示信息
}

// NewEngine 创建规则引擎
func NewEngine(brands, keywords *Matcher, linkKey string) *Engine {
	return &Engine{
		brands:   brands,
		keywords: keywords,
		linkKey:  linkKey,
	}
}

// Evaluate 检查单一商品的所有问题
// 只评估首变体（多变体商品按首变体判定，既定策略）
func (e *Engine) Evaluate(p *model.Product, pc *ProductContext) []model.Finding {
	findings := make([]model.Finding, 0)
	v := p.PrimaryVariant()

	// ========== 必填欄位检查 ==========

	if v != nil && (v.Weight == nil || *v.Weight == 0) {
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryRequiredField,
			Message:  "重量空白或為 0",
			Detail:   "Variant: " + v.VariantTitle(),
		})
	}

	if v != nil && priceIsZero(v.Price) {
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryRequiredField,
			Message:  "價格空白或為 0",
			Detail:   "Variant: " + v.VariantTitle(),
		})
	}

	if len(p.Images) == 0 {
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryRequiredField,
			Message:  "缺少商品圖片",
		})
	}

	if v != nil && strings.TrimSpace(v.SKU) == "" {
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryRequiredField,
			Message:  "SKU 空白",
			Detail:   "Variant: " + v.VariantTitle(),
		})
	}

	// ========== 翻譯品質检查 ==========

	if ContainsJapanese(p.Title) {
		findings = append(findings, model.Finding{
			Category:    model.FindingCategoryLocalization,
			Message:     "標題含有日文",
			Detail:      truncateRunes(p.Title, 50),
			AutoFixable: true,
		})
	}

	// 检测在原始 body_html 上进行，提示信息用去除标记后的摘要
	if ContainsJapanese(p.BodyHTML) {
		findings = append(findings, model.Finding{
			Category:    model.FindingCategoryLocalization,
			Message:     "描述含有日文",
			Detail:      truncateRunes(StripHTML(p.BodyHTML), 50),
			AutoFixable: true,
		})
	}

	if ContainsJapanese(p.SEOTitle) {
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryLocalization,
			Message:  "SEO 標題含有日文",
			Detail:   truncateRunes(p.SEOTitle, 50),
		})
	}

	if ContainsJapanese(p.SEODescription) {
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryLocalization,
			Message:  "SEO 描述含有日文",
			Detail:   truncateRunes(p.SEODescription, 50),
		})
	}

	// ========== Metafields 检查 ==========

	if pc.HasMetafield && strings.TrimSpace(pc.MetafieldLink) == "" {
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryLinkage,
			Message:  "商品連結未填寫",
			Detail:   "缺少 " + e.linkKey,
		})
	}

	// ========== 銷售設定检查 ==========

	if p.Status != model.ProductStatusActive {
		findings = append(findings, model.Finding{
			Category: model.FindingCategorySalesConfig,
			Message:  "商品狀態不是 active",
			Detail:   "目前狀態: " + p.Status,
		})
	}

	// 本店策略：库存追踪应保持关闭
	if v != nil && v.InventoryManagement == model.InventoryManagementShopify {
		findings = append(findings, model.Finding{
			Category: model.FindingCategorySalesConfig,
			Message:  "庫存追蹤已開啟（應該關閉）",
			Detail:   "Variant: " + v.VariantTitle(),
		})
	}

	if pc.HasPublications {
		for _, pub := range pc.Publications {
			if !pub.Published {
				findings = append(findings, model.Finding{
					Category: model.FindingCategorySalesConfig,
					Message:  "Sales Channel 未開啟",
					Detail:   "通路: " + pub.Name,
				})
			}
		}
	}

	// ========== 分類检查 ==========

	if brand, ok := e.brands.MatchPrefix(p.Title); ok {
		// 命中品牌但归属数据未取得时跳过，不产生发现项
		if pc.HasCollections && !containsString(pc.Collections, brand.Name) {
			findings = append(findings, model.Finding{
				Category: model.FindingCategoryGrouping,
				Message:  "未分類到對應品牌 Collection",
				Detail:   fmt.Sprintf("應該在「%s」，目前在: %s", brand.Name, joinOrNone(pc.Collections)),
			})
		}
	} else {
		// 标题不符合任何品牌：命名/配置问题，与缺少归属是不同的发现项
		findings = append(findings, model.Finding{
			Category: model.FindingCategoryGrouping,
			Message:  "商品標題不符合任何品牌格式",
			Detail:   "標題: " + truncateRunes(p.Title, 30),
		})
	}

	// ========== 商品分類检查 ==========

	if strings.TrimSpace(p.ProductType) == "" {
		if kw, ok := e.keywords.MatchContains(p.Title); ok {
			findings = append(findings, model.Finding{
				Category:    model.FindingCategoryTaxonomy,
				Message:     "缺少商品分類",
				Detail:      fmt.Sprintf("關鍵字「%s」建議分類: %s", kw.Name, kw.Target),
				AutoFixable: true,
				Suggestion:  kw.Target,
			})
		} else {
			findings = append(findings, model.Finding{
				Category: model.FindingCategoryTaxonomy,
				Message:  "缺少商品分類，需人工判斷",
				Detail:   "標題: " + truncateRunes(p.Title, 30),
			})
		}
	}

	// ========== Tags 检查 ==========

	for _, tag := range p.TagList() {
		if !IsAcceptableTag(tag) {
			findings = append(findings, model.Finding{
				Category: model.FindingCategoryLocalization,
				Message:  "Tag 包含日文",
				Detail:   "Tag: " + tag,
			})
		}
	}

	return findings
}

// priceIsZero 价格空白、无法解析或为 0 均视为缺失（宽松解析）
func priceIsZero(price string) bool {
	price = strings.TrimSpace(price)
	if price == "" {
		return true
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return true
	}
	return d.IsZero()
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTML 去除 HTML 标记，仅用于人类可读的提示文字
func StripHTML(s string) string {
	stripped := htmlTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

// truncateRunes 按字符数截断（避免把多字节字符截成乱码）
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "無"
	}
	return strings.Join(list, ", ")
}
