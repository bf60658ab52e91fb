package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omishoninjp-sys/shopifychecker/internal/config"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 初始化应用（包含 HTTP Server、Consumer 和 Scheduler）
	app, cleanup, err := InitializeApp(cfg, zapLogger)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	// 4. 创建 HTTP Server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: app.Engine,
	}

	// 5. 启动 Consumer（后台 goroutine）
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	consumerErrChan := make(chan error, 1)

	go func() {
		log.Printf("Starting callback consumer...")
		consumerErrChan <- app.CallbackConsumer.Start(consumerCtx)
	}()

	// 6. 启动排程器
	if err := app.Scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// 7. 启动 HTTP Server（后台 goroutine）
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 8. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Received shutdown signal, gracefully shutting down...")
		gracefulShutdown(server, app, cancelConsumer)
	case err := <-serverErrChan:
		log.Fatalf("HTTP server error: %v", err)
	case err := <-consumerErrChan:
		if err != nil && err != context.Canceled {
			log.Fatalf("Consumer error: %v", err)
		}
	}

	log.Println("Application stopped")
}

// gracefulShutdown 优雅停机
func gracefulShutdown(server *http.Server, app *App, cancelConsumer context.CancelFunc) {
	// 1. 停止排程器
	log.Println("Stopping scheduler...")
	app.Scheduler.Stop()

	// 2. 停止 Consumer
	log.Println("Stopping consumer...")
	cancelConsumer()
	time.Sleep(1 * time.Second) // 等待消费者处理完当前消息

	// 3. 停止 HTTP Server
	log.Println("Stopping HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}

	log.Println("All services stopped gracefully")
}
