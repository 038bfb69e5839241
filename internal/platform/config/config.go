package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Search   SearchConfig   `mapstructure:"search"`
	Stats    StatsConfig    `mapstructure:"stats"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Sqlite SqliteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SecurityConfig 定义了引导期安全相关的配置
type SecurityConfig struct {
	// AdminInitialPassword 是用户表为空时种子管理员账户的初始密码。
	AdminInitialPassword string `mapstructure:"adminInitialPassword"`
}

// SearchConfig 定义了搜索行为的配置
type SearchConfig struct {
	// PageSize 是无显式limit时搜索结果的上限条数。
	PageSize int `mapstructure:"pageSize"`
}

// StatsConfig 定义了统计模块的配置
type StatsConfig struct {
	// RefreshInterval 是后台全量重算的周期。
	RefreshInterval time.Duration `mapstructure:"refreshInterval"`
	// CacheTTL 是Redis中基础统计快照的存活时间。
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件；
// 文件不存在时使用内置默认值，环境变量可覆盖任意配置项。
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 内置默认值，保证没有配置文件也能启动
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.sqlite.path", "lostfound.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("security.adminInitialPassword", "admin123")
	v.SetDefault("search.pageSize", 20)
	v.SetDefault("stats.refreshInterval", 10*time.Minute)
	v.SetDefault("stats.cacheTTL", time.Minute)

	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:9090
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// 配置文件缺失不是错误，使用默认值
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}

// DefaultConfig 返回一份仅含内置默认值的配置，主要供测试使用。
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Mode:    "debug",
			Address: ":8080",
			Cors:    CorsConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
		Database: DatabaseConfig{
			Sqlite: SqliteConfig{Path: "lostfound.db"},
			Redis:  RedisConfig{Address: "localhost:6379"},
		},
		Security: SecurityConfig{AdminInitialPassword: "admin123"},
		Search:   SearchConfig{PageSize: 20},
		Stats: StatsConfig{
			RefreshInterval: 10 * time.Minute,
			CacheTTL:        time.Minute,
		},
	}
}
