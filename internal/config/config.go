package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/logfrete/freight-api/internal/secrets"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Routing   RoutingConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// AuthConfig holds token issuing configuration
type AuthConfig struct {
	// JWTSecret signs access tokens (from JWT-SECRET vault secret or JWT_SECRET env)
	JWTSecret string
	// TokenTTL is the access token lifetime in seconds
	TokenTTL int
	// Issuer is the iss claim on issued tokens
	Issuer string
}

// SMTPConfig holds the outbound mail gateway configuration.
// Delivery is best-effort; the negotiation workflow never blocks on it.
type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// StaffAddress receives proposal notifications addressed to the staff team
	StaffAddress string
}

// RoutingConfig holds the optional route lookup collaborator configuration
type RoutingConfig struct {
	Enabled bool
	BaseURL string
	// Timeout bounds a single lookup call (seconds)
	Timeout int
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	PublicBaseURL         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment" or "vault"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// JobsConfig holds background job configuration
type JobsConfig struct {
	// StaleNegotiationCron schedules the stale-negotiation reminder job
	StaleNegotiationCron string
	// StaleNegotiationEnabled toggles the job
	StaleNegotiationEnabled bool
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TokenTTLDuration returns token lifetime as duration
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Second
}

// TimeoutDuration returns the routing call timeout as duration
func (r *RoutingConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

// Load loads configuration from file and environment variables.
// This is a basic load that doesn't fetch secrets from vault;
// use LoadWithSecrets for full secret resolution.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment-only overrides for secret-bearing fields
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.SMTP.Password == "" {
		cfg.SMTP.Password = v.GetString("SMTP_PASSWORD")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the
// configured source. In development (or when secrets.source = "environment")
// secrets come from env vars; in staging/production with
// USE_AZURE_KEY_VAULT=true they come from Azure Key Vault.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault || !isValidEnv {
		logger.Info("using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
			zap.Bool("use_key_vault", useKeyVault),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if host, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if user, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}
	if secret, err := provider.GetSecretOrEnv(ctx, "JWT-SECRET", "JWT_SECRET"); err == nil && secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if password, err := provider.GetSecretOrEnv(ctx, "SMTP-PASSWORD", "SMTP_PASSWORD"); err == nil && password != "" {
		cfg.SMTP.Password = password
	}
	if conn, err := provider.GetSecretOrEnv(ctx, "STORAGE-CONNECTION-STRING", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && conn != "" {
		cfg.Storage.CloudConnectionString = conn
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "freight-api")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "freight")
	v.SetDefault("database.user", "freight_user")
	v.SetDefault("database.password", "freight_password")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 300)

	// Auth
	v.SetDefault("auth.tokenttl", 28800)
	v.SetDefault("auth.issuer", "freight-api")

	// SMTP
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@logfrete.com.br")
	v.SetDefault("smtp.staffaddress", "fretes@logfrete.com.br")

	// Routing
	v.SetDefault("routing.enabled", false)
	v.SetDefault("routing.timeout", 10)

	// Storage
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localbasepath", "./uploads")
	v.SetDefault("storage.publicbaseurl", "http://localhost:8080/files")
	v.SetDefault("storage.cloudcontainer", "freight-files")
	v.SetDefault("storage.maxuploadsizemb", 20)

	// Secrets
	v.SetDefault("secrets.source", "environment")
	v.SetDefault("secrets.cacheenabled", true)
	v.SetDefault("secrets.cachettl", 300)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server
	v.SetDefault("server.readtimeout", 15)
	v.SetDefault("server.writetimeout", 30)
	v.SetDefault("server.requesttimeout", 60)
	v.SetDefault("server.enableswagger", true)

	// CORS
	v.SetDefault("cors.allowedorigins", []string{"*"})
	v.SetDefault("cors.allowedmethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedheaders", []string{"Accept", "Authorization", "Content-Type"})
	v.SetDefault("cors.exposedheaders", []string{})
	v.SetDefault("cors.allowcredentials", true)
	v.SetDefault("cors.maxage", 300)

	// Rate limit
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requestsperminute", 120)

	// Jobs
	v.SetDefault("jobs.stalenegotiationenabled", false)
	v.SetDefault("jobs.stalenegotiationcron", "0 0 8 * * *")
}
