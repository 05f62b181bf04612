package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/solspace/solspace-backend/internal/domain"
)

const (
	DRIVER_POSTGRES = "postgres"
	DRIVER_SQLITE   = "sqlite"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool          `mapstructure:"debug"`
	SentryDSN string        `mapstructure:"sentry_dsn"`
	LogFile   LogFileConfig `mapstructure:"log_file"`
}

// LogFileConfig holds the rotating log file configuration
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"` // sqlite file, ":memory:" allowed
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// SolanaConfig holds the RPC and collection address configuration
type SolanaConfig struct {
	RPCURL                    string        `mapstructure:"rpc_url"`
	CollectionAddress         string        `mapstructure:"collection_address"`
	Commitment                string        `mapstructure:"commitment"`
	HTTPTimeout               time.Duration `mapstructure:"http_timeout"`
	SignatureCacheTTL         time.Duration `mapstructure:"signature_cache_ttl"`
	SignatureCacheStaleWindow time.Duration `mapstructure:"signature_cache_stale_window"`
}

// DepositConfig holds deposit reconciliation parameters
type DepositConfig struct {
	SignatureLimit   int    `mapstructure:"signature_limit"`
	MinAmountSOL     string `mapstructure:"min_amount_sol"` // decimal string, e.g. "0.005"
	PointsPerSOL     int64  `mapstructure:"points_per_sol"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
}

// GameConfig holds the game event admission policy
type GameConfig struct {
	MaxMultiplier          float64       `mapstructure:"max_multiplier"`
	MinInterval            time.Duration `mapstructure:"min_interval"`
	RateWindow             time.Duration `mapstructure:"rate_window"`
	RateCap                int           `mapstructure:"rate_cap"`
	Retention              time.Duration `mapstructure:"retention"`
	RequireWalletSignature bool          `mapstructure:"require_wallet_signature"`
	BlocklistPath          string        `mapstructure:"blocklist_path"`
}

// RedisConfig holds Redis configuration; an empty address keeps rate state in memory
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NATSConfig holds NATS JetStream configuration; an empty URL disables publishing
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string         `mapstructure:"host"`
	Port         int            `mapstructure:"port"`
	ReadTimeout  int            `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int            `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int            `mapstructure:"idle_timeout"`  // in seconds
	Throttle     ThrottleConfig `mapstructure:"throttle"`
	// CORSAllowedOrigins lists browser origins; empty allows all
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// ThrottleConfig holds the per-client HTTP request throttle
type ThrottleConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// AuthConfig holds authentication configuration for admin routes
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// RateStateSweeperConfig holds configuration for evicting idle in-memory rate state
type RateStateSweeperConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	IdleAfter time.Duration `mapstructure:"idle_after"`
}

// EventLogSweeperConfig holds configuration for the game event retention sweeper
type EventLogSweeperConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

// SeasonFinalizerConfig holds configuration for freezing closed seasons
type SeasonFinalizerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig       `mapstructure:",squash"`
	Server           ServerConfig           `mapstructure:"server"`
	Database         DatabaseConfig         `mapstructure:"database"`
	Solana           SolanaConfig           `mapstructure:"solana"`
	Deposit          DepositConfig          `mapstructure:"deposit"`
	Game             GameConfig             `mapstructure:"game"`
	Redis            RedisConfig            `mapstructure:"redis"`
	NATS             NATSConfig             `mapstructure:"nats"`
	Auth             AuthConfig             `mapstructure:"auth"`
	RateStateSweeper RateStateSweeperConfig `mapstructure:"rate_state_sweeper"`
}

// SweeperConfig holds configuration for the sweeper program
type SweeperConfig struct {
	BaseConfig      `mapstructure:",squash"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Game            GameConfig            `mapstructure:"game"`
	EventLogSweeper EventLogSweeperConfig `mapstructure:"event_log_sweeper"`
	SeasonFinalizer SeasonFinalizerConfig `mapstructure:"season_finalizer"`
}

// CLIConfig holds configuration for the pointsctl admin tool
type CLIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Solana     SolanaConfig   `mapstructure:"solana"`
	Deposit    DepositConfig  `mapstructure:"deposit"`
	NATS       NATSConfig     `mapstructure:"nats"`
}

// setDatabaseDefaults sets the defaults shared by every binary
func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DRIVER_POSTGRES)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "solspace.db")
}

func setSolanaDefaults(v *viper.Viper) {
	v.SetDefault("solana.rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("solana.commitment", "confirmed")
	v.SetDefault("solana.http_timeout", "10s")
	v.SetDefault("solana.signature_cache_ttl", "3s")
	v.SetDefault("solana.signature_cache_stale_window", "30s")
	v.SetDefault("deposit.signature_limit", 25)
	v.SetDefault("deposit.min_amount_sol", "0.005")
	v.SetDefault("deposit.points_per_sol", 1000)
	v.SetDefault("deposit.fetch_concurrency", 4)
}

func setGameDefaults(v *viper.Viper) {
	v.SetDefault("game.max_multiplier", 100)
	v.SetDefault("game.min_interval", "800ms")
	v.SetDefault("game.rate_window", "60s")
	v.SetDefault("game.rate_cap", 120)
	v.SetDefault("game.retention", "720h") // 30 days
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.stream_name", "POINTS_EVENTS")
	v.SetDefault("nats.subject_prefix", "points")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.throttle.requests_per_second", 20)
	v.SetDefault("server.throttle.burst", 40)
	v.SetDefault("redis.key_prefix", "solspace")
	v.SetDefault("rate_state_sweeper.interval", "1m")
	v.SetDefault("rate_state_sweeper.idle_after", "10m")
	setDatabaseDefaults(v)
	setSolanaDefaults(v)
	setGameDefaults(v)
	setNATSDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Solana.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadSweeperConfig loads configuration for the sweeper program
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("event_log_sweeper.interval", "1h")
	v.SetDefault("event_log_sweeper.batch_size", 5000)
	v.SetDefault("season_finalizer.interval", "5m")
	setDatabaseDefaults(v)
	setGameDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg SweeperConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	if cfg.Game.Retention <= 0 {
		return nil, errors.New("game.retention must be positive")
	}

	return &cfg, nil
}

// LoadCLIConfig loads configuration for pointsctl
func LoadCLIConfig(configFile string, envPath string) (*CLIConfig, error) {
	v := configureViper("pointsctl", configFile, envPath)

	setDatabaseDefaults(v)
	setSolanaDefaults(v)
	setNATSDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readConfig reads the config file, falling back to environment variables when none exists
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("SOLSPACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"log_file.path",
		"log_file.max_size_mb",
		"log_file.max_backups",
		"log_file.max_age_days",
		// Database
		"database.driver",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.path",
		"database.auto_migrate",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Solana
		"solana.rpc_url",
		"solana.collection_address",
		"solana.commitment",
		"solana.http_timeout",
		"solana.signature_cache_ttl",
		"solana.signature_cache_stale_window",
		// Deposit
		"deposit.signature_limit",
		"deposit.min_amount_sol",
		"deposit.points_per_sol",
		"deposit.fetch_concurrency",
		// Game
		"game.max_multiplier",
		"game.min_interval",
		"game.rate_window",
		"game.rate_cap",
		"game.retention",
		"game.require_wallet_signature",
		"game.blocklist_path",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.key_prefix",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.throttle.requests_per_second",
		"server.throttle.burst",
		"server.cors_allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Sweepers
		"rate_state_sweeper.interval",
		"rate_state_sweeper.idle_after",
		"event_log_sweeper.interval",
		"event_log_sweeper.batch_size",
		"season_finalizer.interval",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Shared base first, then local, then the optional per-service local file
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DRIVER_SQLITE {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Validate checks the fields required by the configured driver
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DRIVER_POSTGRES:
		if c.Host == "" {
			return errors.New("database.host is required")
		}
		if c.DBName == "" {
			return errors.New("database.dbname is required")
		}
	case DRIVER_SQLITE:
		if c.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Driver)
	}
	return nil
}

// Validate checks the collection address and RPC endpoint
func (c *SolanaConfig) Validate() error {
	if c.RPCURL == "" {
		return errors.New("solana.rpc_url is required")
	}
	if !domain.IsSolanaAddress(c.CollectionAddress) {
		return fmt.Errorf("solana.collection_address %q is not a valid address", c.CollectionAddress)
	}
	return nil
}

// Validate checks the admission policy bounds
func (c *GameConfig) Validate() error {
	if c.MaxMultiplier <= 0 {
		return errors.New("game.max_multiplier must be positive")
	}
	if c.RateCap <= 0 {
		return errors.New("game.rate_cap must be positive")
	}
	if c.RateWindow <= 0 {
		return errors.New("game.rate_window must be positive")
	}
	if c.MinInterval < 0 {
		return errors.New("game.min_interval must not be negative")
	}
	return nil
}
