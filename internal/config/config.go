package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage"   validate:"required"`
	Queue     QueueConfig     `mapstructure:"queue"     validate:"required"`
	Readiness ReadinessConfig `mapstructure:"readiness" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// CacheConfig contains the connection settings for the session cache.
type CacheConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// DatabaseConfig contains the connection settings for the document store.
type DatabaseConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Name string `mapstructure:"name" validate:"required"`
}

// StorageConfig contains the local blob storage settings.
type StorageConfig struct {
	// Root is the directory under which uploaded blobs and derived
	// thumbnails are written. It is created on first write if absent.
	Root string `mapstructure:"root" validate:"required"`
}

// QueueConfig contains the task queue sizing settings.
type QueueConfig struct {
	// UserWorkers is the number of concurrent workers draining the user lane.
	UserWorkers int `mapstructure:"user_workers" validate:"required,gt=0"`

	// FileWorkers is the number of concurrent workers draining the file lane.
	FileWorkers int `mapstructure:"file_workers" validate:"required,gt=0"`

	// BufferSize is the capacity of each lane's in-memory task channel.
	BufferSize int `mapstructure:"buffer_size" validate:"required,gt=0"`
}

// ReadinessConfig bounds the startup wait for the cache and document store.
type ReadinessConfig struct {
	// Attempts is the maximum number of readiness probes before giving up.
	Attempts int `mapstructure:"attempts" validate:"required,gt=0"`

	// Interval is the pause between consecutive probes.
	Interval time.Duration `mapstructure:"interval" validate:"required"`
}
