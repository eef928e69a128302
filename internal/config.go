package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Templates TemplatesConfig   `yaml:"templates"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Render    RenderConfig      `yaml:"render"`
	Suggest   SuggestConfig     `yaml:"suggest"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Templates.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	if err := c.Suggest.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// TemplatesConfig holds the template directories and the enabled file set.
// UserDir is optional; files there shadow built-in files with the same name.
// An empty Enabled list enables every file found.
type TemplatesConfig struct {
	BuiltinDir string   `yaml:"builtin_dir"`
	UserDir    string   `yaml:"user_dir"`
	Enabled    []string `yaml:"enabled"`
	RulesPath  string   `yaml:"rules_path"`
}

// Validate validates the templates configuration.
func (c *TemplatesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BuiltinDir, validation.Required),
	)
}

// SQLiteConfig holds the activity database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RenderConfig holds the link rendering preferences.
type RenderConfig struct {
	Compactness       string `yaml:"compactness"`
	ShowShortURL      bool   `yaml:"show_short_url"`
	PrefixReplacement string `yaml:"prefix_replacement"`
	MiddleNames       string `yaml:"middle_names"`
	Locale            string `yaml:"locale"`
	AttributeLinks    bool   `yaml:"attribute_links"`
	NoteLinks         bool   `yaml:"note_links"`
	InternetLinks     bool   `yaml:"internet_links"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Compactness, validation.In(
			"", "long", "compact_no_attributes", "compact_with_attributes", "shortest")),
		validation.Field(&c.MiddleNames, validation.In(
			"", "leave alone", "separate", "remove")),
	)
}

// SuggestConfig holds the suggestion provider settings. An empty endpoint or
// API key disables the feature.
type SuggestConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the provider request timeout.
func (c *SuggestConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the suggest configuration.
func (c *SuggestConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Templates: TemplatesConfig{
			BuiltinDir: "./templates",
			UserDir:    "./templates/custom",
			RulesPath:  "./attribute_mappings.json",
		},
		SQLite: SQLiteConfig{
			Path: "./kindred.db",
		},
		Render: RenderConfig{
			Compactness:  "compact_no_attributes",
			ShowShortURL: true,
			MiddleNames:  "separate",
			Locale:       "en",
		},
		Suggest: SuggestConfig{
			TimeoutSeconds: 15,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
