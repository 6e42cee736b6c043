package pkgconfig

import "time"

// Config is the read-only view of the application configuration.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetDuration(key string) time.Duration
	// GetSize reads a byte size such as "32mb" or a plain byte count.
	GetSize(key string) int64
	// GetStrings reads a YAML list or a comma-separated string.
	GetStrings(key string) []string
	Close() error
}
