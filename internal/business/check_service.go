package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omishoninjp-sys/shopifychecker/internal/check"
	"github.com/omishoninjp-sys/shopifychecker/internal/config"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/pkg/errorutil"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
	"github.com/omishoninjp-sys/shopifychecker/pkg/mailer"
)

// CheckService 体检服务（仅负责体检逻辑，不涉及 DB 操作）
// 职责：拉取商品快照 → 逐项评估 → 汇总报表 → 发送回调到 callback 队列
type CheckService struct {
	catalog      CatalogAccessor
	collections  CollectionAccessor
	metafields   MetafieldAccessor
	publications PublicationAccessor

	engine   *check.Engine
	checkCfg config.CheckConfig

	mailer        *mailer.Mailer
	publisher     CallbackPublisher
	callbackQueue string
	log           logger.Logger
}

// NewCheckService 创建体检服务实例
func NewCheckService(
	catalog CatalogAccessor,
	collections CollectionAccessor,
	metafields MetafieldAccessor,
	publications PublicationAccessor,
	checkCfg config.CheckConfig,
	reportMailer *mailer.Mailer,
	publisher CallbackPublisher,
	callbackQueue string,
	log logger.Logger,
) *CheckService {
	return &CheckService{
		catalog:       catalog,
		collections:   collections,
		metafields:    metafields,
		publications:  publications,
		engine:        NewEngineFromConfig(checkCfg),
		checkCfg:      checkCfg,
		mailer:        reportMailer,
		publisher:     publisher,
		callbackQueue: callbackQueue,
		log:           log,
	}
}

// NewEngineFromConfig 按配置构建规则引擎
// 品牌表与分类关键字表保持配置中的顺序（同长度时先配置者优先）
func NewEngineFromConfig(cfg config.CheckConfig) *check.Engine {
	brandCandidates := make([]check.Candidate, 0, len(cfg.Brands))
	for _, brand := range cfg.Brands {
		brandCandidates = append(brandCandidates, check.Candidate{Name: brand, Target: brand})
	}

	keywordCandidates := make([]check.Candidate, 0, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		keywordCandidates = append(keywordCandidates, check.Candidate{Name: kw.Keyword, Target: kw.Category})
	}

	return check.NewEngine(
		check.NewMatcher(brandCandidates),
		check.NewMatcher(keywordCandidates),
		cfg.MetafieldLinkKey(),
	)
}

// ExecuteCheck 执行体检并发送回调
// 返回 error 表示整个流程失败（体检失败或回调发送失败）
func (s *CheckService) ExecuteCheck(ctx context.Context, job *model.CatalogCheckData) error {
	run, checkErr := s.RunFullCheck(ctx)

	callback := model.CheckCallback{
		RequestID:   job.RequestID,
		CheckID:     job.Data.CheckID,
		ProcessedAt: time.Now().Unix(),
	}

	if checkErr != nil {
		callback.Status = model.CallbackStatusFailed
		callback.Error = checkErr.Error()
	} else {
		callback.Status = model.CallbackStatusSuccess
		callback.Result = run

		// 排程触发的体检完成后发送报表邮件（发送失败不影响回调）
		if job.Data.SendEmail && s.mailer != nil {
			if err := s.mailer.SendReport(run); err != nil {
				s.log.Errorf(ctx, "send report mail failed: %v", err)
			}
		}
	}

	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	// ttl=0 表示永不过期, delay=0 表示立即可用
	// 发布失败返回可重试错误：任务 Release 后按 TTR 重投，
	// 否则回调永远不会到达，check_runs 记录将永久停留在 RUNNING
	if err := s.publisher.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
		return errorutil.RetriableWithDetails("publish check callback failed", err.Error())
	}

	return nil
}

// RunFullCheck 执行一次全量体检
func (s *CheckService) RunFullCheck(ctx context.Context) (*model.CheckRun, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog snapshot failed: %w", err)
	}

	// Collection ID → 名称表，逐商品解析归属时使用
	collectionNames, err := s.loadCollectionNames(ctx)
	if err != nil {
		// Collection 拉取失败只影响归属规则，逐商品时按数据未取得处理
		s.log.Warnf(ctx, "fetch collections failed, grouping rules will be skipped: %v", err)
		collectionNames = nil
	}

	eval := func(p *model.Product) []model.Finding {
		pc := s.buildProductContext(ctx, p, collectionNames)
		return s.engine.Evaluate(p, pc)
	}

	run, err := check.Aggregate(products, eval)
	if err != nil {
		return nil, err
	}
	run.CheckTime = time.Now().Format("2006-01-02 15:04:05")

	s.log.Infof(ctx, "catalog check finished: %d products, %d with issues, %d issues total",
		run.TotalProducts, run.ProductsWithIssues, run.TotalIssues)

	return run, nil
}

// buildProductContext 收集单个商品的外部数据
// 任一来源取不到时记录日志并标记未取得，对应规则跳过而非误报
func (s *CheckService) buildProductContext(ctx context.Context, p *model.Product, collectionNames map[int64]string) *check.ProductContext {
	pc := &check.ProductContext{}

	if collectionNames != nil {
		ids, err := s.collections.ListProductCollectionIDs(ctx, p.ID)
		if err != nil {
			s.log.Warnf(ctx, "fetch collects for product %d failed: %v", p.ID, err)
		} else {
			names := make([]string, 0, len(ids))
			for _, id := range ids {
				name, ok := collectionNames[id]
				if !ok || s.isExcludedCollection(name) {
					continue
				}
				names = append(names, name)
			}
			pc.Collections = names
			pc.HasCollections = true
		}
	}

	link, err := s.metafields.GetMetafieldValue(ctx, p.ID, s.checkCfg.MetafieldNamespace, s.checkCfg.MetafieldKey)
	if err != nil {
		s.log.Warnf(ctx, "fetch metafields for product %d failed: %v", p.ID, err)
	} else {
		pc.MetafieldLink = link
		pc.HasMetafield = true
	}

	publications, err := s.publications.ListPublicationStatus(ctx, p.ID)
	if err != nil {
		s.log.Warnf(ctx, "fetch publications for product %d failed: %v", p.ID, err)
	} else {
		pc.Publications = publications
		pc.HasPublications = true
	}

	return pc
}

// loadCollectionNames 拉取全部 Collection 并建立 ID → 名称表
func (s *CheckService) loadCollectionNames(ctx context.Context) (map[int64]string, error) {
	collections, err := s.collections.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(collections))
	for _, col := range collections {
		names[col.ID] = col.Title
	}
	return names, nil
}

// isExcludedCollection 通用 Collection（如 All Products）不参与品牌归属判断
func (s *CheckService) isExcludedCollection(name string) bool {
	for _, excluded := range s.checkCfg.ExcludedCollections {
		if name == excluded {
			return true
		}
	}
	return false
}
