package model

// Finding 单个检查发现项
type Finding struct {
	Category    string `json:"type"`                 // 问题分类
	Message     string `json:"issue"`                // 问题描述
	Detail      string `json:"detail"`               // 补充信息
	AutoFixable bool   `json:"auto_fixable"`         // 是否可自动修复（翻译/分类）
	Suggestion  string `json:"suggestion,omitempty"` // 建议值（目前仅商品分類使用）
}

// 问题分类常量（与原报表用语保持一致）
const (
	FindingCategoryRequiredField = "必填欄位"
	FindingCategoryLocalization  = "翻譯品質"
	FindingCategoryLinkage       = "Metafields"
	FindingCategorySalesConfig   = "銷售設定"
	FindingCategoryGrouping      = "分類檢查"
	FindingCategoryTaxonomy      = "商品分類"
)

// ProductReport 单个商品的检查结果（仅含有问题的商品进入报表）
type ProductReport struct {
	ProductID int64     `json:"id"`
	Title     string    `json:"title"`
	Handle    string    `json:"handle"`
	Findings  []Finding `json:"issues"`
}

// CheckRun 一次全量体检的汇总结果
// 产出后不可变，下一次体检整体取代上一次
type CheckRun struct {
	CheckTime          string          `json:"check_time"`
	TotalProducts      int             `json:"total_products"`
	ProductsWithIssues int             `json:"products_with_issues"`
	TotalIssues        int             `json:"total_issues"`
	StatusCounts       map[string]int  `json:"status_counts"`   // active/draft/archived/other
	CategoryCounts     map[string]int  `json:"category_counts"` // 问题分类 → 数量
	Products           []ProductReport `json:"products"`
}

// DuplicateCandidate 疑似自动复制产生的副本商品
type DuplicateCandidate struct {
	ProductID       int64  `json:"product_id"`
	Handle          string `json:"handle"`
	CanonicalHandle string `json:"canonical_handle"` // 推断出的原始 handle
	Suffix          int    `json:"suffix"`           // 副本序号
	CanonicalID     int64  `json:"canonical_id"`     // 原始商品 ID
	CanonicalTitle  string `json:"canonical_title"`  // 原始商品标题
}
