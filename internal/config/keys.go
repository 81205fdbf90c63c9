package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kDuration
)

type keySpec struct {
	key       string
	typ       keyType
	env       string
	legacyEnv string
	secret    bool
	apply     func(cfg *Config, v any)
	extract   func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "proxy.openrouter_api_key", typ: kString, env: "CLIPASK_OPENROUTER_API_KEY", legacyEnv: "OPENROUTER_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Proxy.OpenRouterAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Proxy.OpenRouterAPIKey },
	},
	{
		key: "proxy.model", typ: kString, env: "CLIPASK_MODEL", legacyEnv: "MODEL_NAME",
		apply:   func(cfg *Config, v any) { cfg.Proxy.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Proxy.Model },
	},
	{
		key: "proxy.base_url", typ: kString, env: "CLIPASK_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Proxy.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Proxy.BaseURL },
	},
	{
		key: "poll.interval", typ: kDuration, env: "CLIPASK_POLL_INTERVAL",
		apply:   func(cfg *Config, v any) { cfg.Poll.Interval = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Poll.Interval },
	},
	{
		key: "poll.min_question_length", typ: kInt, env: "CLIPASK_MIN_QUESTION_LENGTH",
		apply:   func(cfg *Config, v any) { cfg.Poll.MinQuestionLength = v.(int) },
		extract: func(cfg Config) any { return cfg.Poll.MinQuestionLength },
	},
	{
		key: "poll.cooldown", typ: kDuration, env: "CLIPASK_COOLDOWN",
		apply:   func(cfg *Config, v any) { cfg.Poll.Cooldown = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Poll.Cooldown },
	},
	{
		key: "poll.ignore_own_answers", typ: kBool, env: "CLIPASK_IGNORE_OWN_ANSWERS",
		apply:   func(cfg *Config, v any) { cfg.Poll.IgnoreOwnAnswers = v.(bool) },
		extract: func(cfg Config) any { return cfg.Poll.IgnoreOwnAnswers },
	},
	{
		key: "log.level", typ: kString, env: "CLIPASK_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if !ok {
				continue
			}
			if v > 0 {
				s.apply(cfg, v)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] config key %s=%d must be positive. Using default value.\n", s.key, v)
			}
		case kBool:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if bv, err := strconv.ParseBool(v); err == nil {
					s.apply(cfg, bv)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		case kDuration:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if d, err := parseDuration(v); err == nil {
					s.apply(cfg, d)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

// lookupEnv returns the primary env var's value, falling back to the legacy
// name.
func (s keySpec) lookupEnv(getenv func(string) string) (name, raw string) {
	if raw = getenv(s.env); raw != "" {
		return s.env, raw
	}
	if s.legacyEnv != "" {
		if raw = getenv(s.legacyEnv); raw != "" {
			return s.legacyEnv, raw
		}
	}
	return "", ""
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		name, raw := s.lookupEnv(getenv)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil && i > 0 {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse positive integer from env var %s=%q. Using default value.\n", name, raw)
			}
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from env var %s=%q: %v. Using default value.\n", name, raw, err)
			}
		case kDuration:
			if d, err := parseDuration(raw); err == nil {
				s.apply(cfg, d)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from env var %s=%q: %v. Using default value.\n", name, raw, err)
			}
		}
	}
}

// parseDuration accepts Go duration strings ("750ms", "2s") or a bare
// number of milliseconds.
func parseDuration(raw string) (time.Duration, error) {
	if ms, err := strconv.Atoi(raw); err == nil {
		raw = strconv.Itoa(ms) + "ms"
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
