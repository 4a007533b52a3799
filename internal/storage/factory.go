package storage

import (
	"fmt"
)

// NewDriver creates a storage driver based on configuration
func NewDriver(cfg *Config) (Driver, error) {
	switch cfg.Driver {
	case "local", "":
		uploadsPath := cfg.UploadsPath
		if uploadsPath == "" {
			uploadsPath = "./uploads"
		}
		return NewLocalStorage(uploadsPath), nil

	case "s3":
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
