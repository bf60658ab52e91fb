package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Lmstfy    LmstfyConfig    `mapstructure:"lmstfy"`
	Shopify   ShopifyConfig   `mapstructure:"shopify"`
	Translate TranslateConfig `mapstructure:"translate"`
	Email     EmailConfig     `mapstructure:"email"`
	Check     CheckConfig     `mapstructure:"check"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Workers   []WorkerConfig  `mapstructure:"workers"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Namespace     string `mapstructure:"namespace"`
	Token         string `mapstructure:"token"`
	Queue         string `mapstructure:"queue"`
	CallbackQueue string `mapstructure:"callback_queue"`
}

// ShopifyConfig Shopify API 配置
type ShopifyConfig struct {
	Shop        string `mapstructure:"shop"`         // 店铺前缀，如 fd249b-ba
	AccessToken string `mapstructure:"access_token"` // Admin API access token
	APIVersion  string `mapstructure:"api_version"`  // 如 2024-01
}

// TranslateConfig 翻译服务配置（外部黑盒服务）
type TranslateConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	APIKey     string        `mapstructure:"api_key"`
	SourceLang string        `mapstructure:"source_lang"` // 如 ja
	TargetLang string        `mapstructure:"target_lang"` // 如 zh-TW
	Timeout    time.Duration `mapstructure:"timeout"`
}

// EmailConfig 邮件通知配置
type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Sender   string `mapstructure:"sender"`
	Receiver string `mapstructure:"receiver"`
	Password string `mapstructure:"password"` // 为空时跳过发送
}

// CheckConfig 体检规则配置（品牌表 / 分类关键字表均为配置数据，非代码）
type CheckConfig struct {
	// 品牌 Collections 清单（商品标题开头 → Collection 名称），顺序即插入顺序
	Brands []string `mapstructure:"brands"`

	// 分类关键字表（关键字 → 建议分类），用列表保持顺序
	Keywords []KeywordMapping `mapstructure:"keywords"`

	// 品牌匹配时排除的通用 Collection（如 All Products）
	ExcludedCollections []string `mapstructure:"excluded_collections"`

	// 商品连结 metafield
	MetafieldNamespace string `mapstructure:"metafield_namespace"`
	MetafieldKey       string `mapstructure:"metafield_key"`
}

// KeywordMapping 单条关键字 → 分类映射
type KeywordMapping struct {
	Keyword  string `mapstructure:"keyword"`
	Category string `mapstructure:"category"`
}

// ScheduleConfig 排程配置
type ScheduleConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	CheckCron  string `mapstructure:"check_cron"`   // 如 "0 9 * * *"（每天 09:00）
	RunAtBoot  bool   `mapstructure:"run_at_boot"`  // 启动时先执行一次
	SendEmail  bool   `mapstructure:"send_email"`   // 排程体检完成后发送邮件
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name          string           `mapstructure:"name"`
	QueueName     string           `mapstructure:"queue_name"`
	CallbackQueue string           `mapstructure:"callback_queue"`
	Subscriber    SubscriberConfig `mapstructure:"subscriber"`
	Processor     ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取速率
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`     // 并发处理数
	BufferSize int           `mapstructure:"buffer_size"` // Channel 缓冲大小
	Timeout    time.Duration `mapstructure:"timeout"`     // 单个任务超时
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-01"
	}

	return &cfg, nil
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Shopify.Shop == "" {
		return fmt.Errorf("shopify.shop is required")
	}
	if c.Shopify.AccessToken == "" {
		return fmt.Errorf("shopify.access_token is required")
	}
	if c.Check.MetafieldNamespace == "" || c.Check.MetafieldKey == "" {
		return fmt.Errorf("check.metafield_namespace and check.metafield_key are required")
	}
	return nil
}

// ValidateServer apiserver 侧的额外校验
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	return nil
}

// ValidateWorker worker 侧的额外校验
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	return nil
}

// MetafieldLinkKey 商品连结 metafield 完整键名（namespace.key）
func (c *CheckConfig) MetafieldLinkKey() string {
	return c.MetafieldNamespace + "." + c.MetafieldKey
}
