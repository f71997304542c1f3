package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name   string
	Env    string
	Owner  HTTP // 运营后台（owner console）
	Vendor HTTP // 商家后台（vendor console）
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 非空则同时写文件并按大小切割
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
	CookieName        string
	CookieSecure      bool
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Email struct {
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

// Cache 各类快照/路由缓存的 TTL 策略，集中声明避免各处自算时间戳
type Cache struct {
	AnalyticsTTLSec    int `mapstructure:"analytics_ttl_sec"`     // 快照多久算“旧”（旧值先返回，后台刷新）
	AnalyticsMaxAgeSec int `mapstructure:"analytics_max_age_sec"` // 超过这个年龄按未命中处理
	RouteTTLSec        int `mapstructure:"route_ttl_sec"`
	SessionTTLMin      int `mapstructure:"session_ttl_min"`
}

type TwoFactor struct {
	CodeTTLSec    int      `mapstructure:"code_ttl_sec"`
	RequiredRoles []string `mapstructure:"required_roles"` // 哪些角色登录必须过二次验证
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis     `mapstructure:"redis"`
	Email     Email     `mapstructure:"email"`
	Cache     Cache     `mapstructure:"cache"`
	TwoFactor TwoFactor `mapstructure:"two_factor"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("jwt.cookiename", "mc_session")
	v.SetDefault("cache.analytics_ttl_sec", 60)
	v.SetDefault("cache.analytics_max_age_sec", 600)
	v.SetDefault("cache.route_ttl_sec", 30)
	v.SetDefault("cache.session_ttl_min", 5)
	v.SetDefault("two_factor.code_ttl_sec", 300)
	v.SetDefault("two_factor.required_roles", []string{"owner"})
}

// RoleNeeds2FA 配置里该角色是否强制二次验证
func (c *Config) RoleNeeds2FA(role string) bool {
	for _, r := range c.TwoFactor.RequiredRoles {
		if r == role {
			return true
		}
	}
	return false
}
