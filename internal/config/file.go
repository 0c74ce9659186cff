package config

import (
	"maps"
	"strings"
	"time"
)

// HostConfig holds the extra request data sent to one image server.
type HostConfig struct {
	// Cookie is a raw cookie string, e.g. "name=value; other=value".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers, e.g. an Authorization token.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .iiif2neon configuration file.
type File struct {
	// Proxy is the default SOCKS5 proxy.
	Proxy string `yaml:"proxy,omitempty"`

	// Timeout is the default request timeout, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent overrides the default User-Agent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Workers overrides the default rendering concurrency.
	Workers int `yaml:"workers,omitempty"`

	// Defaults apply to every host unless overridden.
	Defaults HostConfig `yaml:"defaults,omitempty"`

	// Hosts maps a host name to its settings. A key starting with "."
	// matches the domain and all of its subdomains.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`
}

// NewFile returns an empty configuration file.
func NewFile() *File {
	return &File{Hosts: make(map[string]HostConfig)}
}

// GetHostConfig returns the settings for host, merged over the defaults.
// An exact host entry wins over a domain entry.
func (f *File) GetHostConfig(host string) HostConfig {
	result := HostConfig{
		Cookie:  f.Defaults.Cookie,
		Headers: maps.Clone(f.Defaults.Headers),
	}

	override, ok := f.Hosts[host]
	if !ok {
		override, ok = f.lookupDomain(host)
	}
	if !ok {
		return result
	}

	if override.Cookie != "" {
		result.Cookie = override.Cookie
	}
	if len(override.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(override.Headers))
		}
		maps.Copy(result.Headers, override.Headers)
	}
	return result
}

// lookupDomain finds the longest "."-prefixed key matching host.
func (f *File) lookupDomain(host string) (HostConfig, bool) {
	var (
		best    HostConfig
		bestLen int
	)
	for key, cfg := range f.Hosts {
		if !strings.HasPrefix(key, ".") {
			continue
		}
		if host == key[1:] || strings.HasSuffix(host, key) {
			if len(key) > bestLen {
				best, bestLen = cfg, len(key)
			}
		}
	}
	return best, bestLen > 0
}

// HeadersFor implements transport.HeaderProvider.
func (f *File) HeadersFor(host string) (string, map[string]string) {
	cfg := f.GetHostConfig(host)
	return cfg.Cookie, cfg.Headers
}
