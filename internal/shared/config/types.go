package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ZarinpalConfig configures the fiat gateway rail.
type ZarinpalConfig struct {
	MerchantID  string `mapstructure:"merchant_id"`
	BaseURL     string `mapstructure:"base_url"`
	PayBaseURL  string `mapstructure:"pay_base_url"`
	CallbackURL string `mapstructure:"callback_url"`
	Mock        bool   `mapstructure:"mock"`
}

// TetherConfig configures the USDT stablecoin rail.
type TetherConfig struct {
	RPCURL               string `mapstructure:"rpc_url"`
	TokenContract        string `mapstructure:"token_contract"`
	PlatformAddress      string `mapstructure:"platform_address"`
	PlatformPrivateKey   string `mapstructure:"platform_private_key"`
	ChainID              int64  `mapstructure:"chain_id"`
	ConfirmationsUser    int    `mapstructure:"confirmations_user"`
	ConfirmationsWebhook int    `mapstructure:"confirmations_webhook"`
	Mock                 bool   `mapstructure:"mock"`
}

// FeeConfig holds the per-rail platform fee in basis points.
type FeeConfig struct {
	ZarinpalBasisPoints int64 `mapstructure:"zarinpal_basis_points"`
	TetherBasisPoints   int64 `mapstructure:"tether_basis_points"`
}

type PaymentConfig struct {
	Zarinpal         ZarinpalConfig `mapstructure:"zarinpal"`
	Tether           TetherConfig   `mapstructure:"tether"`
	Fees             FeeConfig      `mapstructure:"fees"`
	ExpiryMinutes    int            `mapstructure:"expiry_minutes"`
	RatesCacheTTLMin int            `mapstructure:"rates_cache_ttl_min"`
}

type SettlementConfig struct {
	SchedulerIntervalMin int `mapstructure:"scheduler_interval_min"`
}

type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}
