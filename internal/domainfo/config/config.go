// Package config loads service configuration from environment variables
// with sane defaults and validates it before anything starts.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the port the HTTP API binds to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// DBPath is the path of the bbolt database file holding resolution records.
	DBPath string `koanf:"db_path" validate:"required"`

	// DNSServers is the list of upstream DNS servers in ip:port format.
	DNSServers []string `koanf:"dns_servers" validate:"required,dive,ip_port"`

	// MinTTLSeconds is the TTL floor applied to every resolution, so that
	// domains publishing tiny TTLs do not trigger a refresh on every call.
	MinTTLSeconds int `koanf:"min_ttl_seconds" validate:"required,gte=1"`

	// CacheMinutes is the absolute lifetime of in-memory view cache entries,
	// independent of the record TTL.
	CacheMinutes int `koanf:"cache_minutes" validate:"required,gte=1"`

	// CacheSize bounds the number of in-memory view cache entries.
	CacheSize int `koanf:"cache_size" validate:"required,gte=1"`

	// WhoisTimeoutSeconds bounds each WHOIS query on the primary fetch path.
	WhoisTimeoutSeconds int `koanf:"whois_timeout_seconds" validate:"required,gte=1"`

	// NSTimeoutSeconds bounds the name-server lookup; on timeout the
	// resolution degrades to an empty list instead of failing.
	NSTimeoutSeconds int `koanf:"ns_timeout_seconds" validate:"required,gte=1"`

	// RedisAddr, when set, switches the view cache to a shared Redis tier.
	RedisAddr string `koanf:"redis_addr"`
}

// DEFAULT_APP_CONFIG defines the default settings for the resolution service.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                 "prod",
	LogLevel:            "info",
	Port:                8080,
	DBPath:              "/var/lib/domainfo/domains.db",
	DNSServers:          []string{"1.1.1.1:53", "1.0.0.1:53"},
	MinTTLSeconds:       60,
	CacheMinutes:        5,
	CacheSize:           1000,
	WhoisTimeoutSeconds: 10,
	NSTimeoutSeconds:    5,
}

// validIPPort validates an "IP:Port" field value.
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// envLoader loads environment variables with the prefix "DOMAINFO_",
// lowercasing keys and splitting list values on spaces or commas.
// It can be swapped out in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DOMAINFO_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DOMAINFO_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG into the koanf instance.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "ip_port" validator.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("ip_port", validIPPort)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
