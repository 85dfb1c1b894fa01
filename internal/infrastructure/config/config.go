package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "lastbite/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Payment    sharedConfig.PaymentConfig    `mapstructure:"payment"`
	Settlement sharedConfig.SettlementConfig `mapstructure:"settlement"`
	Webhook    sharedConfig.WebhookConfig    `mapstructure:"webhook"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("LASTBITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 3600)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("payment.zarinpal.base_url", "https://payment.zarinpal.com/pg/v4/payment")
	viper.SetDefault("payment.zarinpal.pay_base_url", "https://payment.zarinpal.com/pg/StartPay")
	viper.SetDefault("payment.zarinpal.mock", false)
	viper.SetDefault("payment.tether.chain_id", 1)
	viper.SetDefault("payment.tether.confirmations_user", 3)
	viper.SetDefault("payment.tether.confirmations_webhook", 12)
	viper.SetDefault("payment.tether.mock", false)
	viper.SetDefault("payment.fees.zarinpal_basis_points", 500)
	viper.SetDefault("payment.fees.tether_basis_points", 300)
	viper.SetDefault("payment.expiry_minutes", 30)
	viper.SetDefault("payment.rates_cache_ttl_min", 5)

	viper.SetDefault("settlement.scheduler_interval_min", 60)
}
