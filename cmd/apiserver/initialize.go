package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/consumer"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/modules/mdcheck"
	checkhandler "github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/check"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/duplicate"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/product"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/report"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/routers"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/scheduler"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/services/svcallback"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/services/svcheck"
	"github.com/omishoninjp-sys/shopifychecker/internal/business"
	"github.com/omishoninjp-sys/shopifychecker/internal/config"
	"github.com/omishoninjp-sys/shopifychecker/internal/entity"
	"github.com/omishoninjp-sys/shopifychecker/internal/repo/rpcheckrun"
	infraredis "github.com/omishoninjp-sys/shopifychecker/pkg/infra/redis"
	"github.com/omishoninjp-sys/shopifychecker/pkg/lmstfy"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
	"github.com/omishoninjp-sys/shopifychecker/pkg/mailer"
	"github.com/omishoninjp-sys/shopifychecker/pkg/shopify"
	"github.com/omishoninjp-sys/shopifychecker/pkg/translate"
)

// App 装配完成的应用
type App struct {
	Engine           *gin.Engine
	CallbackConsumer *consumer.CallbackConsumer
	Scheduler        *scheduler.Scheduler
}

// InitializeApp 装配 apiserver 全部依赖
func InitializeApp(cfg *config.Config, log logger.Logger) (*App, func(), error) {
	// 基础设施
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql failed: %w", err)
	}
	if err := db.AutoMigrate(&entity.CheckRun{}); err != nil {
		return nil, nil, fmt.Errorf("migrate check_runs failed: %w", err)
	}

	redisClient, err := infraredis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis failed: %w", err)
	}

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("create lmstfy client failed: %w", err)
	}

	shopifyClient := shopify.NewClient(cfg.Shopify.Shop, cfg.Shopify.AccessToken, cfg.Shopify.APIVersion)
	translateClient := translate.NewClient(
		cfg.Translate.Endpoint, cfg.Translate.APIKey,
		cfg.Translate.SourceLang, cfg.Translate.TargetLang, cfg.Translate.Timeout,
	)

	reportMailer, err := mailer.NewMailer(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort,
		cfg.Email.Sender, cfg.Email.Receiver, cfg.Email.Password,
	)
	if err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("create mailer failed: %w", err)
	}

	// 仓储与模块
	checkRepo := rpcheckrun.NewCheckRunRepository(db)
	checkModule := mdcheck.NewCheckModule(lmstfyClient, redisClient, cfg.Lmstfy.Queue)

	// 服务
	checkSvc := svcheck.NewCheckService(checkRepo, checkModule, log)
	callbackSvc := svcallback.NewCallbackService(checkRepo, redisClient, log)
	remediationSvc := business.NewRemediationService(shopifyClient, shopifyClient, translateClient, cfg.Check, log)

	// Handler 与路由
	engine := routers.SetupRoutes(
		checkhandler.NewCheckHandler(checkSvc),
		duplicate.NewDuplicateHandler(remediationSvc),
		product.NewProductHandler(remediationSvc),
		report.NewReportHandler(checkSvc, reportMailer),
		log,
	)

	// 回调消费者
	callbackConsumer := consumer.NewCallbackConsumer(lmstfyClient, callbackSvc, &consumer.Config{
		QueueName:    cfg.Lmstfy.CallbackQueue,
		Timeout:      3 * time.Second,
		TTR:          30 * time.Second,
		PollInterval: time.Second,
	}, log)

	// 排程器
	checkScheduler := scheduler.NewScheduler(checkSvc, cfg.Schedule, log)

	cleanup := func() {
		redisClient.Close()
	}

	return &App{
		Engine:           engine,
		CallbackConsumer: callbackConsumer,
		Scheduler:        checkScheduler,
	}, cleanup, nil
}
