package business

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// stubTranslator 固定结果翻译桩
type stubTranslator struct {
	calls int
}

func (s *stubTranslator) Translate(ctx context.Context, text string) (string, error) {
	s.calls++
	return "譯文:" + text, nil
}

func (s *stubTranslator) TranslateHTML(ctx context.Context, html string) (string, error) {
	s.calls++
	return "<p>譯文</p>", nil
}

func newTestRemediationService(shop *stubShop, tr Translator) *RemediationService {
	return NewRemediationService(shop, shop, tr, testCheckConfig(), nopLogger{})
}

func TestTranslateProduct(t *testing.T) {
	t.Run("标题与描述均含日文", func(t *testing.T) {
		p := cleanProduct(1)
		p.Title = "虎屋羊羹 夜の梅"
		p.BodyHTML = "<p>とらやの羊羹</p>"
		shop := &stubShop{products: []model.Product{p}}
		tr := &stubTranslator{}

		svc := newTestRemediationService(shop, tr)
		result, err := svc.TranslateProduct(context.Background(), 1)
		require.NoError(t, err)

		assert.True(t, result.TitleUpdated)
		assert.True(t, result.BodyUpdated)
		assert.Equal(t, 2, tr.calls)
		require.Contains(t, shop.updates, int64(1))
		assert.Equal(t, "譯文:虎屋羊羹 夜の梅", shop.updates[1]["title"])
	})

	t.Run("无日文不修改", func(t *testing.T) {
		shop := &stubShop{products: []model.Product{cleanProduct(1)}}
		tr := &stubTranslator{}

		svc := newTestRemediationService(shop, tr)
		result, err := svc.TranslateProduct(context.Background(), 1)
		require.NoError(t, err)

		assert.False(t, result.TitleUpdated)
		assert.False(t, result.BodyUpdated)
		assert.Equal(t, 0, tr.calls)
		assert.Empty(t, shop.updates)
	})
}

func TestAssignCategory(t *testing.T) {
	t.Run("关键字命中写回分类", func(t *testing.T) {
		p := cleanProduct(1)
		p.ProductType = ""
		shop := &stubShop{products: []model.Product{p}}

		svc := newTestRemediationService(shop, &stubTranslator{})
		category, err := svc.AssignCategory(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, "和菓子", category)
		assert.Equal(t, "和菓子", shop.updates[1]["product_type"])
	})

	t.Run("已有分类不覆盖", func(t *testing.T) {
		shop := &stubShop{products: []model.Product{cleanProduct(1)}}

		svc := newTestRemediationService(shop, &stubTranslator{})
		category, err := svc.AssignCategory(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, "和菓子", category)
		assert.Empty(t, shop.updates)
	})

	t.Run("无关键字命中返回错误", func(t *testing.T) {
		p := cleanProduct(1)
		p.Title = "保冷袋"
		p.ProductType = ""
		shop := &stubShop{products: []model.Product{p}}

		svc := newTestRemediationService(shop, &stubTranslator{})
		_, err := svc.AssignCategory(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNoCategoryMatch)
	})
}

func TestCleanDuplicates(t *testing.T) {
	canonical := cleanProduct(1)
	canonical.Handle = "toraya-yokan"
	dup := cleanProduct(2)
	dup.Handle = "toraya-yokan-1"
	orphan := cleanProduct(3)
	orphan.Handle = "dango-1" // dango 不存在，不得删除

	shop := &stubShop{products: []model.Product{canonical, dup, orphan}}
	svc := newTestRemediationService(shop, &stubTranslator{})

	result, err := svc.CleanDuplicates(context.Background(), []int64{2, 3, 404})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, result.Deleted)
	assert.ElementsMatch(t, []int64{3, 404}, result.Skipped)
	assert.Equal(t, []int64{2}, shop.deleted)
}

func TestScanDuplicates(t *testing.T) {
	canonical := cleanProduct(1)
	dup := cleanProduct(2)
	dup.Handle = "toraya-yokan-2"

	shop := &stubShop{products: []model.Product{canonical, dup}}
	svc := newTestRemediationService(shop, &stubTranslator{})

	candidates, err := svc.ScanDuplicates(context.Background())
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, int64(2), candidates[0].ProductID)
	assert.Equal(t, int64(1), candidates[0].CanonicalID)
	assert.Equal(t, 2, candidates[0].Suffix)
}
