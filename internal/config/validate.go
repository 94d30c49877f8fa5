package config

import (
	"fmt"
	"net/url"
	"slices"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if c.Store.Driver == StoreDriverPostgres && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres store")
	}

	if err := c.Wiktionary.validate(); err != nil {
		return fmt.Errorf("wiktionary: %w", err)
	}

	if err := c.Unroll.validate(); err != nil {
		return fmt.Errorf("unroll: %w", err)
	}

	return nil
}

func (s *StoreConfig) validate() error {
	if !slices.Contains([]string{StoreDriverPostgres, StoreDriverSQLite}, s.Driver) {
		return fmt.Errorf("driver must be %q or %q (got %q)", StoreDriverPostgres, StoreDriverSQLite, s.Driver)
	}
	if s.Driver == StoreDriverSQLite && s.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required for the sqlite store")
	}
	return nil
}

func (w *WiktionaryConfig) validate() error {
	for name, raw := range map[string]string{"api_url": w.APIURL, "site_url": w.SiteURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL (got %q)", name, raw)
		}
	}
	if w.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", w.MaxAttempts)
	}
	if w.BackoffStep < 0 {
		return fmt.Errorf("backoff_step must be >= 0 (got %s)", w.BackoffStep)
	}
	if w.PageCacheSize < 1 {
		return fmt.Errorf("page_cache_size must be >= 1 (got %d)", w.PageCacheSize)
	}
	if w.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", w.Concurrency)
	}
	return nil
}

func (u *UnrollConfig) validate() error {
	if u.MaxOffsets < 1 {
		return fmt.Errorf("max_offsets must be >= 1 (got %d)", u.MaxOffsets)
	}
	if u.FlushSize < 1 || u.InitialFlush < 1 {
		return fmt.Errorf("flush sizes must be >= 1 (got %d, %d)", u.FlushSize, u.InitialFlush)
	}
	if u.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be >= 1 (got %d)", u.ChunkSize)
	}
	if !slices.Contains([]string{BackupModeNone, BackupModeCaller, BackupModeAlways}, u.BackupMode) {
		return fmt.Errorf("backup_mode must be one of none, caller, always (got %q)", u.BackupMode)
	}
	return nil
}
