package business

import (
	"context"
	"fmt"

	"github.com/omishoninjp-sys/shopifychecker/internal/check"
	"github.com/omishoninjp-sys/shopifychecker/internal/config"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

// RemediationService 自动修复服务
// 覆盖可自动修复的两类问题：日文翻译、商品分类补填，以及副本商品清理
type RemediationService struct {
	catalog    CatalogAccessor
	mutator    CatalogMutator
	translator Translator
	keywords   *check.Matcher
	log        logger.Logger
}

// NewRemediationService 创建自动修复服务实例
func NewRemediationService(
	catalog CatalogAccessor,
	mutator CatalogMutator,
	translator Translator,
	checkCfg config.CheckConfig,
	log logger.Logger,
) *RemediationService {
	keywordCandidates := make([]check.Candidate, 0, len(checkCfg.Keywords))
	for _, kw := range checkCfg.Keywords {
		keywordCandidates = append(keywordCandidates, check.Candidate{Name: kw.Keyword, Target: kw.Category})
	}

	return &RemediationService{
		catalog:    catalog,
		mutator:    mutator,
		translator: translator,
		keywords:   check.NewMatcher(keywordCandidates),
		log:        log,
	}
}

// TranslateResult 翻译修复结果
type TranslateResult struct {
	ProductID     int64  `json:"product_id"`
	TitleUpdated  bool   `json:"title_updated"`
	BodyUpdated   bool   `json:"body_updated"`
	NewTitle      string `json:"new_title,omitempty"`
	OriginalTitle string `json:"original_title,omitempty"`
}

// TranslateProduct 翻译商品的日文标题与描述并写回
// 标题与描述均无日文时不做任何修改
func (s *RemediationService) TranslateProduct(ctx context.Context, productID int64) (*TranslateResult, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d failed: %w", productID, err)
	}

	result := &TranslateResult{ProductID: productID}
	updates := make(map[string]interface{})

	if check.ContainsJapanese(p.Title) {
		translated, err := s.translator.Translate(ctx, p.Title)
		if err != nil {
			return nil, fmt.Errorf("translate title failed: %w", err)
		}
		updates["title"] = translated
		result.TitleUpdated = true
		result.OriginalTitle = p.Title
		result.NewTitle = translated
	}

	if check.ContainsJapanese(check.StripHTML(p.BodyHTML)) {
		translated, err := s.translator.TranslateHTML(ctx, p.BodyHTML)
		if err != nil {
			return nil, fmt.Errorf("translate body failed: %w", err)
		}
		updates["body_html"] = translated
		result.BodyUpdated = true
	}

	if len(updates) == 0 {
		return result, nil
	}

	if err := s.mutator.UpdateProduct(ctx, productID, updates); err != nil {
		return nil, fmt.Errorf("write back translation failed: %w", err)
	}

	s.log.Infof(ctx, "product %d translated: title=%v body=%v", productID, result.TitleUpdated, result.BodyUpdated)
	return result, nil
}

// ErrNoCategoryMatch 标题未命中任何分类关键字
var ErrNoCategoryMatch = fmt.Errorf("no category keyword matched")

// AssignCategory 按标题关键字补填商品分类
// 已有分类的商品原样返回，不覆盖人工设置
func (s *RemediationService) AssignCategory(ctx context.Context, productID int64) (string, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("fetch product %d failed: %w", productID, err)
	}

	if p.ProductType != "" {
		return p.ProductType, nil
	}

	candidate, ok := s.keywords.MatchContains(p.Title)
	if !ok {
		return "", ErrNoCategoryMatch
	}

	if err := s.mutator.UpdateProduct(ctx, productID, map[string]interface{}{
		"product_type": candidate.Target,
	}); err != nil {
		return "", fmt.Errorf("write back category failed: %w", err)
	}

	s.log.Infof(ctx, "product %d categorized as %s (keyword %s)", productID, candidate.Target, candidate.Name)
	return candidate.Target, nil
}

// ScanDuplicates 扫描疑似自动复制产生的副本商品
func (s *RemediationService) ScanDuplicates(ctx context.Context) ([]model.DuplicateCandidate, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog snapshot failed: %w", err)
	}
	return check.FindDuplicates(products)
}

// CleanResult 副本清理结果
type CleanResult struct {
	Deleted []int64 `json:"deleted"`
	Skipped []int64 `json:"skipped"` // 重新校验未通过或删除失败的商品
}

// CleanDuplicates 删除指定的副本商品
// 删除前基于最新快照重新校验：handle 仍符合副本格式且原始商品仍存在，
// 两者任一不成立则跳过该商品，避免误删
func (s *RemediationService) CleanDuplicates(ctx context.Context, productIDs []int64) (*CleanResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog snapshot failed: %w", err)
	}

	byID := make(map[int64]*model.Product, len(products))
	byHandle := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
		byHandle[products[i].Handle] = &products[i]
	}

	result := &CleanResult{}
	for _, id := range productIDs {
		p, ok := byID[id]
		if !ok {
			s.log.Warnf(ctx, "product %d not found in snapshot, skipped", id)
			result.Skipped = append(result.Skipped, id)
			continue
		}

		canonical, _, ok := check.ParseDuplicateHandle(p.Handle)
		if !ok {
			s.log.Warnf(ctx, "product %d handle %q is not a duplicate handle, skipped", id, p.Handle)
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if _, exists := byHandle[canonical]; !exists {
			s.log.Warnf(ctx, "canonical handle %q for product %d no longer exists, skipped", canonical, id)
			result.Skipped = append(result.Skipped, id)
			continue
		}

		if err := s.mutator.DeleteProduct(ctx, id); err != nil {
			s.log.Errorf(ctx, "delete product %d failed: %v", id, err)
			result.Skipped = append(result.Skipped, id)
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}

	s.log.Infof(ctx, "duplicate clean finished: %d deleted, %d skipped", len(result.Deleted), len(result.Skipped))
	return result, nil
}
