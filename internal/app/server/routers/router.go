package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/check"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/duplicate"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/product"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/handlers/report"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/server/middlewares"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	checkHandler *check.CheckHandler,
	duplicateHandler *duplicate.DuplicateHandler,
	productHandler *product.ProductHandler,
	reportHandler *report.ReportHandler,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "shopifychecker",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		checks := v1.Group("/checks")
		{
			checks.POST("", checkHandler.Create)
			checks.GET("", checkHandler.List)
			checks.GET("/latest", checkHandler.GetLatest)
			checks.GET("/:id", checkHandler.Get)
		}

		duplicates := v1.Group("/duplicates")
		{
			duplicates.POST("/scan", duplicateHandler.Scan)
			duplicates.POST("/clean", duplicateHandler.Clean)
		}

		products := v1.Group("/products")
		{
			products.POST("/:id/translate", productHandler.Translate)
			products.POST("/:id/category", productHandler.AssignCategory)
		}

		reports := v1.Group("/reports")
		{
			reports.POST("/email", reportHandler.SendEmail)
		}
	}

	return r
}
