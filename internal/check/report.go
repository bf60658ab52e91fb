package check

import (
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// EvaluateFunc 单商品检查函数（由调用方组装好外部数据后闭包注入）
type EvaluateFunc func(p *model.Product) []model.Finding

// Aggregate 汇总整个商品目录的检查结果
// 逐个调用 eval 并累计：商品总数、状态分布、问题分类计数、
// 以及含问题商品的（商品, 发现项）列表。
// 输入相同则结果相同；快照为空返回 ErrEmptyCatalog 而非空结果。
// CheckTime 由调用方填写（本函数保持纯函数语义）。
func Aggregate(products []model.Product, eval EvaluateFunc) (*model.CheckRun, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	run := &model.CheckRun{
		TotalProducts:  len(products),
		StatusCounts:   make(map[string]int),
		CategoryCounts: make(map[string]int),
		Products:       make([]model.ProductReport, 0),
	}

	for i := range products {
		p := &products[i]
		run.StatusCounts[statusKey(p.Status)]++

		findings := eval(p)
		if len(findings) == 0 {
			continue
		}

		run.ProductsWithIssues++
		run.TotalIssues += len(findings)
		for _, f := range findings {
			run.CategoryCounts[f.Category]++
		}

		run.Products = append(run.Products, model.ProductReport{
			ProductID: p.ID,
			Title:     p.Title,
			Handle:    p.Handle,
			Findings:  findings,
		})
	}

	return run, nil
}

// statusKey 非标准状态归入 other
func statusKey(status string) string {
	switch status {
	case model.ProductStatusActive, model.ProductStatusDraft, model.ProductStatusArchived:
		return status
	default:
		return "other"
	}
}
