package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the API.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Email   EmailConfig   `mapstructure:"email"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Storage StorageConfig `mapstructure:"storage"`
	Key     KeyConfig     `mapstructure:"key"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Port        int    `mapstructure:"port"`
	Env         string `mapstructure:"env"`
	CORSOrigins string `mapstructure:"cors_origins"`
	StaticDir   string `mapstructure:"static_dir"`
	// Scheme used when building absolute links from the request host.
	Scheme string `mapstructure:"scheme"`
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI              string        `mapstructure:"uri"`
	Database         string        `mapstructure:"database"`
	CollectionPrefix string        `mapstructure:"collection_prefix"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
}

// AuthConfig holds token lifetimes and the RS256 key pair location.
type AuthConfig struct {
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
	Issuer          string        `mapstructure:"issuer"`
	PrivateKeyPath  string        `mapstructure:"private_key_path"`
	PublicKeyPath   string        `mapstructure:"public_key_path"`
}

// EmailConfig holds email token and link settings.
type EmailConfig struct {
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	VerifyURL string        `mapstructure:"verify_url"`
	ResetURL  string        `mapstructure:"reset_url"`
	LogoFile  string        `mapstructure:"logo_file"`
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	From     string `mapstructure:"from"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Secure   bool   `mapstructure:"secure"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// StorageConfig selects where uploaded images live.
type StorageConfig struct {
	Driver         string `mapstructure:"driver"`
	UploadDir      string `mapstructure:"upload_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`
}

// KeyConfig holds partner key settings.
type KeyConfig struct {
	RevokePath string `mapstructure:"revoke_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 9000)
	v.SetDefault("api.env", "local")
	v.SetDefault("api.cors_origins", "*")
	v.SetDefault("api.static_dir", "./static")
	v.SetDefault("api.scheme", "http")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "dtm")
	v.SetDefault("mongo.collection_prefix", "dtm")
	v.SetDefault("mongo.connect_timeout", "10s")

	v.SetDefault("auth.access_token_ttl", "1h")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.issuer", "dtm")
	v.SetDefault("auth.private_key_path", "./keys/private.pem")
	v.SetDefault("auth.public_key_path", "./keys/public.pem")

	v.SetDefault("email.token_ttl", "5m")
	v.SetDefault("email.verify_url", "https://dtm.avalue.co.th/verifyEmail")
	v.SetDefault("email.reset_url", "https://dtm.avalue.co.th/password/newPassword")
	v.SetDefault("email.logo_file", "logo.png")

	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.secure", false)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")

	v.SetDefault("storage.driver", "disk")
	v.SetDefault("storage.upload_dir", "./uploads")
	v.SetDefault("storage.max_upload_bytes", 10<<20)
	v.SetDefault("storage.minio_endpoint", "localhost:9000")
	v.SetDefault("storage.minio_access_key", "")
	v.SetDefault("storage.minio_secret_key", "")
	v.SetDefault("storage.minio_bucket", "dtm-images")
	v.SetDefault("storage.minio_use_ssl", false)

	v.SetDefault("key.revoke_path", "./keys/secret.pem")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads .env (if present), an optional config.yaml from path and the
// environment. Environment variables win; API_PORT overrides api.port.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path == "" {
		path = "."
	}
	v.AddConfigPath(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "disk", "minio":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 || c.Email.TokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return errors.New("storage.max_upload_bytes must be positive")
	}
	return nil
}
