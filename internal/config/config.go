package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Store      StoreConfig      `yaml:"store"`
	Wiktionary WiktionaryConfig `yaml:"wiktionary"`
	Unroll     UnrollConfig     `yaml:"unroll"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// UnrollRateLimit caps new searches per client per minute; 0 disables it.
	UnrollRateLimit int `yaml:"unroll_rate_limit" env:"SERVER_UNROLL_RATE_LIMIT" env-default:"30"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver     string `yaml:"driver"      env:"STORE_DRIVER"      env-default:"postgres"`
	SQLitePath string `yaml:"sqlite_path" env:"STORE_SQLITE_PATH" env-default:"./etymologez.db"`
}

// WiktionaryConfig holds settings for the MediaWiki API client.
type WiktionaryConfig struct {
	APIURL        string        `yaml:"api_url"         env:"WIKTIONARY_API_URL"         env-default:"https://en.wiktionary.org/w/api.php"`
	SiteURL       string        `yaml:"site_url"        env:"WIKTIONARY_SITE_URL"        env-default:"https://en.wiktionary.org"`
	UserAgent     string        `yaml:"user_agent"      env:"WIKTIONARY_USER_AGENT"      env-default:"etymologez/1.0 (https://github.com/gezakerecsenyi/etymologez)"`
	Timeout       time.Duration `yaml:"timeout"         env:"WIKTIONARY_TIMEOUT"         env-default:"20s"`
	MaxAttempts   int           `yaml:"max_attempts"    env:"WIKTIONARY_MAX_ATTEMPTS"    env-default:"100"`
	BackoffStep   time.Duration `yaml:"backoff_step"    env:"WIKTIONARY_BACKOFF_STEP"    env-default:"2s"`
	PageCacheSize int           `yaml:"page_cache_size" env:"WIKTIONARY_PAGE_CACHE_SIZE" env-default:"1000"`
	Concurrency   int           `yaml:"concurrency"     env:"WIKTIONARY_CONCURRENCY"     env-default:"16"`
}

// UnrollConfig holds etymology traversal settings.
type UnrollConfig struct {
	FreshnessWindow time.Duration `yaml:"freshness_window" env:"UNROLL_FRESHNESS_WINDOW" env-default:"2m"`
	MaxOffsets      int           `yaml:"max_offsets"      env:"UNROLL_MAX_OFFSETS"      env-default:"10"`
	FlushSize       int           `yaml:"flush_size"       env:"UNROLL_FLUSH_SIZE"       env-default:"40"`
	InitialFlush    int           `yaml:"initial_flush"    env:"UNROLL_INITIAL_FLUSH"    env-default:"10"`
	ChunkSize       int           `yaml:"chunk_size"       env:"UNROLL_CHUNK_SIZE"       env-default:"100"`
	DepthFirst      bool          `yaml:"depth_first"      env:"UNROLL_DEPTH_FIRST"      env-default:"false"`
	BackupMode      string        `yaml:"backup_mode"      env:"UNROLL_BACKUP_MODE"      env-default:"caller"`
	Timeout         time.Duration `yaml:"timeout"          env:"UNROLL_TIMEOUT"          env-default:"60m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Backup modes for UnrollConfig.BackupMode.
const (
	BackupModeNone   = "none"
	BackupModeCaller = "caller"
	BackupModeAlways = "always"
)

// Store drivers for StoreConfig.Driver.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)
