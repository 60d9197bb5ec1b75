package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Config is read from an optional certprep.yaml, a .env file and the
// environment, in increasing precedence. Env names are the upper-cased keys
// (http_addr -> HTTP_ADDR).
type Config struct {
	Env       string `mapstructure:"env"` // development|production; selects the zap preset
	Mode      Mode   `mapstructure:"mode"`
	HTTPAddr  string `mapstructure:"http_addr"`
	PublicURL string `mapstructure:"public_url"`

	DBDriver string `mapstructure:"db_driver"`
	DBDSN    string `mapstructure:"db_dsn"`

	BlobDriver     string `mapstructure:"blob_driver"` // fs|minio
	BlobBasePath   string `mapstructure:"blob_base_path"`
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`

	EnableLocalAuth bool   `mapstructure:"enable_local_auth"`
	JWTSecret       string `mapstructure:"jwt_secret"`
	AdminUser       string `mapstructure:"admin_user"`
	AdminPassHash   string `mapstructure:"admin_pass_hash"` // bcrypt; empty disables admin login

	SessionCookieName string        `mapstructure:"session_cookie_name"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	SecureCookies     bool          `mapstructure:"secure_cookies"`

	CORSOriginsOnline  []string `mapstructure:"cors_origins_online"`
	CORSOriginsOffline []string `mapstructure:"cors_origins_offline"`

	RedisAddr     string        `mapstructure:"redis_addr"` // empty disables the stats cache
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	StatsTTL      time.Duration `mapstructure:"stats_ttl"`

	AMQPURL   string `mapstructure:"amqp_url"` // empty disables event publishing
	AMQPQueue string `mapstructure:"amqp_queue"`

	RecorderURL string `mapstructure:"recorder_url"` // used by the drill client
	PrefsPath   string `mapstructure:"prefs_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("public_url", "")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("blob_driver", "fs")
	v.SetDefault("blob_base_path", "./data")
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "certprep")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("enable_local_auth", true)
	v.SetDefault("jwt_secret", DevJWTSecret)
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_pass_hash", "") // empty disables admin login; see `certprep admin hash`
	v.SetDefault("session_cookie_name", "certprep_session")
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("cors_origins_online", []string{"https://certprep.example.com"})
	v.SetDefault("cors_origins_offline", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("stats_ttl", "1m")
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_queue", "certprep.attempts")
	v.SetDefault("recorder_url", "http://localhost:8080")
	v.SetDefault("prefs_path", "")
}

// Load reads configuration. Extra search paths for certprep.yaml may be given;
// "." and "./config" are always searched.
func Load(paths ...string) (Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()
	return load(viper.New(), paths...)
}

func load(v *viper.Viper, paths ...string) (Config, error) {
	v.SetConfigName("certprep")
	v.SetConfigType("yaml")
	for _, p := range append(paths, ".", "./config") {
		v.AddConfigPath(p)
	}
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOriginsOnline = trimList(cfg.CORSOriginsOnline)
	cfg.CORSOriginsOffline = trimList(cfg.CORSOriginsOffline)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DevJWTSecret is the built-in signing secret, accepted only in offline mode.
const DevJWTSecret = "dev-secret-change-me"

func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported db_driver %q", c.DBDriver)
	}
	switch c.BlobDriver {
	case "fs", "minio":
	default:
		return fmt.Errorf("config: unsupported blob_driver %q", c.BlobDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("config: jwt_secret is required")
	}
	if c.Mode == ModeOnline && c.JWTSecret == DevJWTSecret {
		return errors.New("config: set jwt_secret; the development default is refused in online mode")
	}
	if c.SessionCookieName == "" {
		return errors.New("config: session_cookie_name is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: session_ttl must be positive")
	}
	return nil
}

// CORSOrigins returns the allow-list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
