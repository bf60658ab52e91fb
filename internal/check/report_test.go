package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

func TestAggregate(t *testing.T) {
	products := []model.Product{
		{ID: 1, Title: "A", Handle: "a", Status: model.ProductStatusActive},
		{ID: 2, Title: "B", Handle: "b", Status: model.ProductStatusDraft},
		{ID: 3, Title: "C", Handle: "c", Status: "unknown"},
		{ID: 4, Title: "D", Handle: "d", Status: model.ProductStatusActive},
	}

	eval := func(p *model.Product) []model.Finding {
		switch p.ID {
		case 2:
			return []model.Finding{
				{Category: model.FindingCategoryRequiredField, Message: "SKU 空白"},
				{Category: model.FindingCategoryLocalization, Message: "標題含有日文"},
			}
		case 3:
			return []model.Finding{
				{Category: model.FindingCategoryRequiredField, Message: "缺少商品圖片"},
			}
		default:
			return nil
		}
	}

	run, err := Aggregate(products, eval)
	require.NoError(t, err)

	assert.Equal(t, 4, run.TotalProducts)
	assert.Equal(t, 2, run.ProductsWithIssues)
	assert.Equal(t, 3, run.TotalIssues)
	assert.Equal(t, 2, run.StatusCounts["active"])
	assert.Equal(t, 1, run.StatusCounts["draft"])
	assert.Equal(t, 1, run.StatusCounts["other"])
	assert.Equal(t, 2, run.CategoryCounts[model.FindingCategoryRequiredField])
	assert.Equal(t, 1, run.CategoryCounts[model.FindingCategoryLocalization])

	// 仅含问题商品进入报表，且保持输入顺序
	require.Len(t, run.Products, 2)
	assert.Equal(t, int64(2), run.Products[0].ProductID)
	assert.Equal(t, int64(3), run.Products[1].ProductID)
}

func TestAggregateIdempotent(t *testing.T) {
	// 同一快照重复汇总结果一致
	products := []model.Product{
		{ID: 1, Title: "A", Handle: "a", Status: model.ProductStatusActive},
		{ID: 2, Title: "B", Handle: "b", Status: model.ProductStatusDraft},
	}
	eval := func(p *model.Product) []model.Finding {
		if p.ID == 1 {
			return []model.Finding{{Category: model.FindingCategorySalesConfig, Message: "商品狀態不是 active"}}
		}
		return nil
	}

	first, err := Aggregate(products, eval)
	require.NoError(t, err)
	second, err := Aggregate(products, eval)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateEmptySnapshot(t *testing.T) {
	_, err := Aggregate(nil, func(p *model.Product) []model.Finding { return nil })
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestAggregateNoIssues(t *testing.T) {
	products := []model.Product{{ID: 1, Status: model.ProductStatusActive}}
	run, err := Aggregate(products, func(p *model.Product) []model.Finding { return nil })
	require.NoError(t, err)
	assert.Equal(t, 0, run.ProductsWithIssues)
	assert.Empty(t, run.Products)
}
