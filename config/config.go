package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Email      EmailConfig      `mapstructure:"email"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Membership MembershipConfig `mapstructure:"membership"`
	Checkout   CheckoutConfig   `mapstructure:"checkout"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	ShopURL  string `mapstructure:"shop_url"`
	SiteName string `mapstructure:"site_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type QueueConfig struct {
	OrderQueue string `mapstructure:"order_queue"`
	MaxWorkers int    `mapstructure:"max_workers"`
}

// AdminConfig 管理员账号（bcrypt 哈希存配置，不入库）
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type MembershipConfig struct {
	SweepLimit          int `mapstructure:"sweep_limit"`           // 每批过期处理数量
	SweepHourUTC        int `mapstructure:"sweep_hour_utc"`        // 每日扫描时间（UTC 小时）
	FollowUpSeconds     int `mapstructure:"follow_up_seconds"`     // 满批后追加扫描延迟
	ReactivateGraceDays int `mapstructure:"reactivate_grace_days"` // 重新激活的宽限天数
}

type CheckoutConfig struct {
	RequiredFields []string `mapstructure:"required_fields"`
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Membership.SweepLimit <= 0 {
		c.Membership.SweepLimit = 100
	}
	if c.Membership.FollowUpSeconds <= 0 {
		c.Membership.FollowUpSeconds = 60
	}
	if c.Membership.ReactivateGraceDays <= 0 {
		c.Membership.ReactivateGraceDays = 30
	}
	if c.Queue.OrderQueue == "" {
		c.Queue.OrderQueue = "membership_orders"
	}
	if c.Queue.MaxWorkers <= 0 {
		c.Queue.MaxWorkers = 2
	}
}
