package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Operator is the single shop account. The document store scopes every
	// collection under Operator.UID, mirroring the per-user collection paths
	// of the hosted console this backend replaces.
	Operator struct {
		UID          string `mapstructure:"uid"`
		Email        string `mapstructure:"email"`
		PasswordHash string `mapstructure:"password_hash"`
	} `mapstructure:"operator"`

	R2 struct {
		Enabled   bool   `mapstructure:"enabled"`
		AccountID string `mapstructure:"account_id"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Bucket    string `mapstructure:"bucket"`
	} `mapstructure:"r2"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "ottica-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "ottica_db")
	v.SetDefault("operator.uid", "negozio")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not found in environment or config file")
		}
	}

	// Operator credentials come from the environment in production
	if email := os.Getenv("OPERATOR_EMAIL"); email != "" {
		cfg.Operator.Email = email
	}
	if hash := os.Getenv("OPERATOR_PASSWORD_HASH"); hash != "" {
		cfg.Operator.PasswordHash = hash
	}
	if uid := os.Getenv("OPERATOR_UID"); uid != "" {
		cfg.Operator.UID = uid
	}
	if cfg.Operator.Email == "" || cfg.Operator.PasswordHash == "" {
		log.Fatal("OPERATOR_EMAIL and OPERATOR_PASSWORD_HASH must be configured")
	}

	// R2 backup settings from environment
	if key := os.Getenv("R2_ACCESS_KEY"); key != "" {
		cfg.R2.AccessKey = key
	}
	if secret := os.Getenv("R2_SECRET_KEY"); secret != "" {
		cfg.R2.SecretKey = secret
	}
	if account := os.Getenv("R2_ACCOUNT_ID"); account != "" {
		cfg.R2.AccountID = account
	}
	if bucket := os.Getenv("R2_BUCKET"); bucket != "" {
		cfg.R2.Bucket = bucket
	}
	if cfg.R2.AccessKey != "" && cfg.R2.SecretKey != "" && cfg.R2.Bucket != "" {
		cfg.R2.Enabled = true
	}

	return &cfg
}
