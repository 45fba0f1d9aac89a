package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application, read once at
// process start from the environment (optionally seeded by a .env file).
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	OTP      OTPConfig
	Google   GoogleConfig
	SMTP     SMTPConfig
	Razorpay RazorpayConfig
	Minio    MinioConfig
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret        string `mapstructure:"jwtsecret"`
	AccessTTLMinutes int    `mapstructure:"accessttlminutes"`
}

// OTPConfig controls one-time code issuance.
type OTPConfig struct {
	TTLMinutes            int `mapstructure:"ttlminutes"`
	ResendCooldownSeconds int `mapstructure:"resendcooldownseconds"`
	MaxAttempts           int `mapstructure:"maxattempts"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"clientid"`
	ClientSecret string `mapstructure:"clientsecret"`
	RedirectURL  string `mapstructure:"redirecturl"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// RazorpayConfig holds the payment gateway credentials.
type RazorpayConfig struct {
	KeyID     string `mapstructure:"keyid"`
	KeySecret string `mapstructure:"keysecret"`
}

// MinioConfig holds the object storage connection settings.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accesskey"`
	SecretKey string `mapstructure:"secretkey"`
	UseSSL    bool   `mapstructure:"usessl"`
	PublicURL string `mapstructure:"publicurl"`
}

// Load creates a new Config object from environment variables.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into the process environment so BindEnv sees file-based values.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	bindings := map[string]string{
		"server.port":               "SERVER_PORT",
		"server.env":                "SERVER_ENV",
		"database.url":              "DATABASE_URL",
		"redis.url":                 "REDIS_URL",
		"auth.jwtsecret":            "JWT_SECRET",
		"auth.accessttlminutes":     "ACCESS_TOKEN_TTL_MINUTES",
		"otp.ttlminutes":            "OTP_TTL_MINUTES",
		"otp.resendcooldownseconds": "OTP_RESEND_COOLDOWN_SECONDS",
		"otp.maxattempts":           "OTP_MAX_ATTEMPTS",
		"google.clientid":           "GOOGLE_CLIENT_ID",
		"google.clientsecret":       "GOOGLE_CLIENT_SECRET",
		"google.redirecturl":        "GOOGLE_REDIRECT_URL",
		"smtp.host":                 "SMTP_HOST",
		"smtp.port":                 "SMTP_PORT",
		"smtp.username":             "SMTP_USERNAME",
		"smtp.password":             "SMTP_PASSWORD",
		"smtp.from":                 "SMTP_FROM",
		"razorpay.keyid":            "RAZORPAY_KEY_ID",
		"razorpay.keysecret":        "RAZORPAY_KEY_SECRET",
		"minio.endpoint":            "MINIO_ENDPOINT",
		"minio.accesskey":           "MINIO_ACCESS_KEY",
		"minio.secretkey":           "MINIO_SECRET_KEY",
		"minio.usessl":              "MINIO_USE_SSL",
		"minio.publicurl":           "MINIO_PUBLIC_URL",
	}
	for key, env := range bindings {
		_ = viper.BindEnv(key, env)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %s", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("unable to decode config into struct: %v", err)
	}

	// Defaults.
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Auth.AccessTTLMinutes <= 0 {
		cfg.Auth.AccessTTLMinutes = 15
	}
	if cfg.OTP.TTLMinutes <= 0 {
		cfg.OTP.TTLMinutes = 5
	}
	if cfg.OTP.ResendCooldownSeconds <= 0 {
		cfg.OTP.ResendCooldownSeconds = 60
	}
	if cfg.OTP.MaxAttempts <= 0 {
		cfg.OTP.MaxAttempts = 5
	}

	return &cfg
}
