// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LLM provider identifiers. Using constants avoids magic strings at call sites.
const (
	ProviderGemini = "gemini"
	// ProviderNone disables the LLM planner entirely; the heuristic
	// interpreter takes over.
	ProviderNone = "none"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Agent     AgentConfig     `mapstructure:"agent" yaml:"agent"`
	Workflows WorkflowsConfig `mapstructure:"workflows" yaml:"workflows"`
	Input     InputConfig     `mapstructure:"input" yaml:"input"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// AgentConfig holds settings for the conversational agent and its LLM planner.
type AgentConfig struct {
	SystemPromptOverride string         `mapstructure:"system_prompt_override" yaml:"system_prompt_override"`
	ActionPacing         time.Duration  `mapstructure:"action_pacing" yaml:"action_pacing"`
	LLM                  LLMModelConfig `mapstructure:"llm" yaml:"llm"`
}

// LLMModelConfig configures a single LLM backend.
type LLMModelConfig struct {
	Provider   string        `mapstructure:"provider" yaml:"provider"`
	Model      string        `mapstructure:"model" yaml:"model"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	// RequestsPerMinute caps outbound API calls. Zero disables the limiter.
	RequestsPerMinute int     `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Temperature       float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxOutputTokens   int     `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
}

// WorkflowsConfig controls workflow persistence.
type WorkflowsConfig struct {
	// Dir is the directory holding one JSON record per saved workflow.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// DefaultStepDelay is the inter-step delay recorded on new steps.
	DefaultStepDelay time.Duration `mapstructure:"default_step_delay" yaml:"default_step_delay"`
}

// InputConfig controls how input actions are injected.
type InputConfig struct {
	// Humanize enables jittered typing cadence and eased pointer trajectories.
	Humanize bool `mapstructure:"humanize" yaml:"humanize"`
	// TypeInterval is the base inter-key delay when typing text.
	TypeInterval time.Duration `mapstructure:"type_interval" yaml:"type_interval"`
	// ScreenshotDir is where captured screenshots are written.
	ScreenshotDir string `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	// DryRun routes all actions through the simulated driver instead of the OS.
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run"`
}

// DataDir resolves the base data directory (~/.deskpilot), used for defaults.
func DataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		// Fall back to a relative directory when the home dir cannot be resolved.
		return ".deskpilot"
	}
	return filepath.Join(home, ".deskpilot")
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "deskpilot")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// Agent defaults
	v.SetDefault("agent.action_pacing", "500ms")
	v.SetDefault("agent.llm.provider", ProviderNone)
	v.SetDefault("agent.llm.model", "gemini-2.0-flash")
	v.SetDefault("agent.llm.api_timeout", "60s")
	v.SetDefault("agent.llm.requests_per_minute", 30)
	v.SetDefault("agent.llm.temperature", 0.2)
	v.SetDefault("agent.llm.max_output_tokens", 2048)

	// Workflow defaults
	v.SetDefault("workflows.dir", filepath.Join(DataDir(), "workflows"))
	v.SetDefault("workflows.default_step_delay", "500ms")

	// Input defaults
	v.SetDefault("input.humanize", true)
	v.SetDefault("input.type_interval", "10ms")
	v.SetDefault("input.screenshot_dir", filepath.Join(DataDir(), "screenshots"))
	v.SetDefault("input.dry_run", true)
}

// Load unmarshals the given viper instance into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig returns a Config populated purely from defaults.
// Used by tests and as a fallback when no config file is present.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		// Defaults are static; failure to unmarshal them is a programming error.
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}
