// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Chatbot  ChatbotConfig  `mapstructure:"chatbot"`
	Agents   AgentsConfig   `mapstructure:"agents"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// ChatbotConfig tunes the router and the recovery pipeline.
type ChatbotConfig struct {
	RouteThreshold    float64 `mapstructure:"route_threshold"`
	ContinuityBonus   float64 `mapstructure:"continuity_bonus"`
	MaxContextTurns   int     `mapstructure:"max_context_turns"`
	EnableGuardrails  bool    `mapstructure:"enable_guardrails"`
	TurnTimeout       int     `mapstructure:"turn_timeout"` // milliseconds
	FailureNoticeText string  `mapstructure:"failure_notice_text"`
}

// AgentsConfig locates the agent registry and sets invocation defaults.
type AgentsConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
	MaxRetries   int    `mapstructure:"max_retries"`
}

// SessionsConfig selects and tunes the session store. The context window is
// Chatbot.MaxContextTurns; it is a turn-pipeline concern, not a storage one.
type SessionsConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "redis"
	TTL     int    `mapstructure:"ttl"`     // seconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TurnTimeoutDuration returns the per-turn deadline applied around agent
// invocation, with a safety default when unset.
func (c ChatbotConfig) TurnTimeoutDuration() time.Duration {
	if c.TurnTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TurnTimeout) * time.Millisecond
}

// AgentTimeoutDuration returns the per-invocation timeout.
func (a AgentsConfig) AgentTimeoutDuration() time.Duration {
	if a.Timeout <= 0 {
		return 20 * time.Second
	}
	return time.Duration(a.Timeout) * time.Millisecond
}

// SessionTTLDuration returns the session expiry used by TTL-aware stores.
func (s SessionsConfig) SessionTTLDuration() time.Duration {
	if s.TTL <= 0 {
		return time.Hour
	}
	return time.Duration(s.TTL) * time.Second
}
