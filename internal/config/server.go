package config

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/lawnchairsociety/openscroller/internal/antispam"
	"github.com/lawnchairsociety/openscroller/internal/namefilter"
)

// ServerConfig holds settings for the level server.
type ServerConfig struct {
	TelnetAddr  string            `yaml:"telnet_addr"`
	HTTPAddr    string            `yaml:"http_addr"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Password    PasswordConfig    `yaml:"password"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`

	Names        namefilter.Config `yaml:"names"`
	CommandLimit antispam.Config   `yaml:"command_limit"`
}

// RateLimitConfig holds rate limiting settings for login attempts.
type RateLimitConfig struct {
	MaxAttempts       int `yaml:"max_attempts"`
	LockoutSeconds    int `yaml:"lockout_seconds"`
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"` // cap for the doubling backoff
}

// ConnectionsConfig holds connection limit settings. Zero means unlimited.
type ConnectionsConfig struct {
	MaxPerIP int `yaml:"max_per_ip"`
	MaxTotal int `yaml:"max_total"`
}

// PasswordConfig holds password validation settings.
type PasswordConfig struct {
	MinLength        int  `yaml:"min_length"`
	RequireUppercase bool `yaml:"require_uppercase"`
	RequireLowercase bool `yaml:"require_lowercase"`
	RequireDigit     bool `yaml:"require_digit"`
	RequireSpecial   bool `yaml:"require_special"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins lists origins allowed to connect. Empty enforces
	// same-origin; "*" allows everything.
	AllowedOrigins []string `yaml:"allowed_origins"`

	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultServerConfig returns a ServerConfig with secure defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		TelnetAddr: ":4000",
		HTTPAddr:   ":4443",
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
		},
		Password: PasswordConfig{
			MinLength:        8,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireDigit:     true,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 3,
			MaxTotal: 100,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:       5,
			LockoutSeconds:    30,
			MaxLockoutSeconds: 300,
		},
		Names:        namefilter.DefaultConfig(),
		CommandLimit: antispam.DefaultConfig(),
	}
}

// IsOriginAllowed reports whether a WebSocket upgrade from origin may proceed.
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin compares the host part of origin with the request host. An
// empty origin comes from a non-browser client and is allowed.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}

func (c *PasswordConfig) minLength() int {
	if c.MinLength == 0 {
		return 8
	}
	return c.MinLength
}

// ValidatePassword returns a message describing the first unmet rule, or ""
// if the password is acceptable.
func (c *PasswordConfig) ValidatePassword(password string) string {
	if len(password) < c.minLength() {
		return "Password must be at least " + strconv.Itoa(c.minLength()) + " characters."
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	switch {
	case c.RequireUppercase && !hasUpper:
		return "Password must contain at least one uppercase letter."
	case c.RequireLowercase && !hasLower:
		return "Password must contain at least one lowercase letter."
	case c.RequireDigit && !hasDigit:
		return "Password must contain at least one digit."
	case c.RequireSpecial && !hasSpecial:
		return "Password must contain at least one special character."
	}
	return ""
}

// RequirementsText describes the password rules for the registration prompt.
func (c *PasswordConfig) RequirementsText() string {
	parts := []string{"min " + strconv.Itoa(c.minLength()) + " chars"}
	if c.RequireUppercase {
		parts = append(parts, "uppercase")
	}
	if c.RequireLowercase {
		parts = append(parts, "lowercase")
	}
	if c.RequireDigit {
		parts = append(parts, "digit")
	}
	if c.RequireSpecial {
		parts = append(parts, "special char")
	}
	return strings.Join(parts, ", ")
}
