package config

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "iiif2neon"

	// DefaultExpectedType is the @type a source manifest must declare.
	DefaultExpectedType = "sc:Manifest"

	// DefaultTimeout of zero leaves requests without a deadline, matching
	// the platform default. Set a positive value to bound slow servers.
	DefaultTimeout time.Duration = 0

	// DefaultUserAgent identifies the converter to IIIF servers.
	DefaultUserAgent = "iiif2neon/1.0 (+https://github.com/nao1215/iiif2neon)"

	// DefaultMaxBodySize limits a retrieved manifest to 32MB.
	DefaultMaxBodySize = 32 * 1024 * 1024

	// DefaultOutputExtension is appended to files written with --output-dir.
	DefaultOutputExtension = ".jsonld"
)

// Config holds the options of one iiif2neon run.
type Config struct {
	// Sources are the manifest URLs or local paths to convert, in order.
	Sources []string

	// ExpectedType is the @type each source must declare.
	// Empty disables the check; @context is always checked.
	ExpectedType string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy ("host:port" or socks5:// URL).
	ProxyAddress string

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize is the maximum accepted manifest size in bytes.
	MaxBodySize int64

	// Workers bounds concurrent MEI rendering within one manifest.
	// Sources themselves are always fetched one at a time.
	Workers int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit configuration file, if any.
	ConfigFilePath string

	// File is the loaded configuration file; never nil after loading.
	File *File

	// OutputFile receives the result of a single source. Empty means stdout.
	OutputFile string

	// OutputDir receives one file per source, named after its title.
	OutputDir string

	// MarkdownReport writes a Markdown summary instead of the manifest.
	MarkdownReport bool

	// SummaryReport writes a terminal summary table instead of the manifest.
	SummaryReport bool

	// Indent pretty-prints the JSON output.
	Indent bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ExpectedType: DefaultExpectedType,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		Workers:      runtime.NumCPU(),
		File:         NewFile(),
	}
}

// XDGConfigDir returns the XDG config directory for iiif2neon.
// On Linux: ~/.config/iiif2neon
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSource
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MarkdownReport && c.SummaryReport {
		return ErrConflictingReportFormats
	}
	if c.OutputFile != "" && c.OutputDir != "" {
		return ErrConflictingOutputs
	}
	if c.OutputFile != "" && len(c.Sources) > 1 {
		return ErrOutputFileMultipleSources
	}
	return nil
}

// ApplyFile fills options not set on the command line from the loaded file.
// changed reports whether a flag was given explicitly.
func (c *Config) ApplyFile(changed func(flag string) bool) {
	if c.File == nil {
		return
	}
	if !changed("proxy") && c.File.Proxy != "" {
		c.ProxyAddress = c.File.Proxy
	}
	if !changed("timeout") && c.File.Timeout > 0 {
		c.Timeout = c.File.Timeout
	}
	if !changed("user-agent") && c.File.UserAgent != "" {
		c.UserAgent = c.File.UserAgent
	}
	if !changed("workers") && c.File.Workers > 0 {
		c.Workers = c.File.Workers
	}
}
