package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/llm"
)

// Advisor names accepted by the simulate command and the HTTP API.
const (
	AdvisorRules = "rules"
	AdvisorLLM   = "llm"
)

// Settings is the resolved application configuration.
type Settings struct {
	Logging   LoggingSettings
	LLM       LLMSettings
	Telemetry TelemetrySettings
	ExportDir string
	Advisor   string
	Addr      string
}

// LoggingSettings selects the slog level and handler.
type LoggingSettings struct {
	Level  string
	Format string
}

// LLMSettings configures the delegated recommendation provider.
type LLMSettings struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	CacheTTL    time.Duration
	Temperature float64
	MaxTokens   int
	RateLimit   int
}

// TelemetrySettings configures trace export. An empty endpoint keeps spans local.
type TelemetrySettings struct {
	Endpoint    string
	ServiceName string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.timeout", 45*time.Second)
	v.SetDefault("advisor", AdvisorRules)
	v.SetDefault("export.dir", "./exports")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("telemetry.service_name", "budgetsim")
}

// LoadTelemetry reads the tracing settings. Tracing starts before the rest of
// the settings are validated, so it is read on its own.
func LoadTelemetry(v *viper.Viper) TelemetrySettings {
	return TelemetrySettings{
		Endpoint:    v.GetString("telemetry.endpoint"),
		ServiceName: v.GetString("telemetry.service_name"),
	}
}

// Load resolves settings from v, which should already have defaults,
// flags and the config file applied.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		LLM: LLMSettings{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			BaseURL:     v.GetString("llm.base_url"),
			APIKey:      v.GetString("llm.api_key"),
			Timeout:     v.GetDuration("llm.timeout"),
			CacheTTL:    v.GetDuration("llm.cache_ttl"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			RateLimit:   v.GetInt("llm.rate_limit"),
		},
		Telemetry: LoadTelemetry(v),
		ExportDir: ExpandPath(v.GetString("export.dir")),
		Advisor:   strings.ToLower(v.GetString("advisor")),
		Addr:      v.GetString("server.addr"),
	}

	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if err := ValidateAdvisor(s.Advisor); err != nil {
		return Settings{}, err
	}
	if s.LLM.APIKey == "" {
		s.LLM.APIKey = providerKeyFromEnv(s.LLM.Provider)
	}

	return s, nil
}

// ValidateAdvisor rejects unknown advisor names.
func ValidateAdvisor(name string) error {
	switch name {
	case AdvisorRules, AdvisorLLM:
		return nil
	default:
		return common.InvalidField("advisor", fmt.Sprintf("must be %q or %q, got %q", AdvisorRules, AdvisorLLM, name))
	}
}

// ClientConfig converts the settings into an llm.Config.
func (s LLMSettings) ClientConfig() llm.Config {
	return llm.Config{
		Provider:    s.Provider,
		Model:       s.Model,
		BaseURL:     s.BaseURL,
		APIKey:      s.APIKey,
		Timeout:     s.Timeout,
		CacheTTL:    s.CacheTTL,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		RateLimit:   s.RateLimit,
	}
}

func providerKeyFromEnv(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
