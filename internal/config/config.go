package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	DatabasePath string `mapstructure:"db_path" yaml:"db_path"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`

	// AdminUsername/AdminPassword seed the admin account on startup when
	// it does not exist yet. Registration always creates students.
	AdminUsername string `mapstructure:"admin_username" yaml:"admin_username"`
	AdminPassword string `mapstructure:"admin_password" yaml:"admin_password"`

	// MaxActiveCalls caps concurrently active call sessions; 0 = unlimited.
	MaxActiveCalls int `mapstructure:"max_active_calls" yaml:"max_active_calls"`
	// MaxMessageLen bounds chat message size in bytes.
	MaxMessageLen int `mapstructure:"max_message_len" yaml:"max_message_len"`
	// MessagesPerMinute rate-limits chat messages per connection; 0 = off.
	MessagesPerMinute int `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "studyhall.db",
		JWTIssuer:         "studyhall-relay",
		JWTAudience:       "studyhall",
		JWTTTL:            24 * time.Hour,
		AdminUsername:     "admin",
		MaxActiveCalls:    0,
		MaxMessageLen:     2000,
		MessagesPerMinute: 60,
	}
}
