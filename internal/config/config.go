package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	appName         = "clipask"
	keychainAccount = "openrouter_api_key"
)

type Config struct {
	Proxy ProxyConfig
	Poll  PollConfig
	Log   LogConfig
}

type ProxyConfig struct {
	OpenRouterAPIKey string
	Model            string
	BaseURL          string
}

type PollConfig struct {
	Interval          time.Duration
	MinQuestionLength int
	Cooldown          time.Duration
	IgnoreOwnAnswers  bool
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Proxy: ProxyConfig{
			Model:   "upstage/solar-pro-3:free",
			BaseURL: "https://openrouter.ai/api/v1",
		},
		Poll: PollConfig{
			Interval:          500 * time.Millisecond,
			MinQuestionLength: 5,
			Cooldown:          2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.clipask.app) and the API
// key falls back to macOS Keychain.
// Elsewhere the backend is a JSON file at $XDG_CONFIG_HOME/clipask/config.json
// and the API key falls back to $XDG_DATA_HOME/clipask/secrets.json.
//
// Environment variables (CLIPASK_*, plus OPENROUTER_API_KEY and MODEL_NAME)
// override backend values on all platforms. The same variables may be set in
// a .env file in the working directory or next to the executable; real
// environment variables take precedence over it.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{}, newEnvLookup(dotEnvPaths()...))
}

// keychain abstracts secret store access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain, getenv func(string) string) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg, getenv)

	if cfg.Proxy.OpenRouterAPIKey == "" {
		if key, err := kc.Get(appName, keychainAccount); err == nil && key != "" {
			cfg.Proxy.OpenRouterAPIKey = key
		}
	}

	if cfg.Proxy.OpenRouterAPIKey == "" {
		msg := "missing required config: OpenRouter API key. " +
			"Set it via environment variable CLIPASK_OPENROUTER_API_KEY (or OPENROUTER_API_KEY), " +
			"in a .env file" +
			apiKeyHint()
		return Config{}, fmt.Errorf("%s", msg)
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
