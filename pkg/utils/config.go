package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	Pricing  PricingConfig
	AMQP     AMQPConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret string
}

type PaymentConfig struct {
	APIKey        string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
	Currency      string
}

type PricingConfig struct {
	TaxRate           float64
	ServiceChargeRate float64
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PAYMENT_TIMEOUT_SECONDS", 10)
	viper.SetDefault("PAYMENT_CURRENCY", "USD")
	viper.SetDefault("TAX_RATE", 0.10)
	viper.SetDefault("SERVICE_CHARGE_RATE", 0.05)
	viper.SetDefault("AMQP_EXCHANGE", "hotel.notifications")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		Payment: PaymentConfig{
			APIKey:        viper.GetString("PAYMENT_API_KEY"),
			WebhookSecret: viper.GetString("PAYMENT_WEBHOOK_SECRET"),
			BaseURL:       viper.GetString("PAYMENT_BASE_URL"),
			Timeout:       time.Duration(viper.GetInt("PAYMENT_TIMEOUT_SECONDS")) * time.Second,
			Currency:      viper.GetString("PAYMENT_CURRENCY"),
		},
		Pricing: PricingConfig{
			TaxRate:           viper.GetFloat64("TAX_RATE"),
			ServiceChargeRate: viper.GetFloat64("SERVICE_CHARGE_RATE"),
		},
		AMQP: AMQPConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
	}

	return config, nil
}
