package camerata

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the tunables shared by sessions and drivers.
type Config struct {
	// Driver restricts enumeration to the named driver. Empty means all.
	Driver string
	// SuggestedFPS is the minimum frame rate the format selector tries to
	// honour when Open is given the zero Format.
	SuggestedFPS uint32
	// FrameTimeout bounds how long a driver waits for one frame before
	// reporting a fetch error.
	FrameTimeout time.Duration
	// BufferCount is the number of capture buffers a driver queues.
	BufferCount uint32
}

func DefaultConfig() Config {
	return Config{
		SuggestedFPS: 25,
		FrameTimeout: 5 * time.Second,
		BufferCount:  4,
	}
}

// ConfigFromEnv returns DefaultConfig overlaid with CAMERATA_DRIVER,
// CAMERATA_SUGGESTED_FPS, CAMERATA_FRAME_TIMEOUT and CAMERATA_BUFFER_COUNT.
// Unparseable values are ignored.
func ConfigFromEnv() Config {
	c := DefaultConfig()
	c.Driver = getEnvOrDefault("CAMERATA_DRIVER", c.Driver)
	c.SuggestedFPS = uint32(getEnvAsIntOrDefault("CAMERATA_SUGGESTED_FPS", int(c.SuggestedFPS)))
	c.BufferCount = uint32(getEnvAsIntOrDefault("CAMERATA_BUFFER_COUNT", int(c.BufferCount)))
	if v := os.Getenv("CAMERATA_FRAME_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FrameTimeout = d
		}
	}
	return c
}

func (c Config) Validate() error {
	if c.FrameTimeout <= 0 {
		return fmt.Errorf("frame timeout must be positive, got %v", c.FrameTimeout)
	}
	if c.BufferCount == 0 {
		return fmt.Errorf("buffer count must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil && i >= 0 {
			return i
		}
	}
	return defaultValue
}

// Option configures a Session.
type Option func(*Config)

func WithConfig(c Config) Option {
	return func(dst *Config) { *dst = c }
}

func WithSuggestedFPS(fps uint32) Option {
	return func(c *Config) { c.SuggestedFPS = fps }
}

func WithDriver(name string) Option {
	return func(c *Config) { c.Driver = name }
}
