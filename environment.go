package wayfarer

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
)

// An Environment names where wayfarer is deployed.
type Environment string

const (
	Development Environment = "DEVELOPMENT"
	Production  Environment = "PRODUCTION"
	Staging     Environment = "STAGING"
	Testing     Environment = "TESTING"
)

func (e Environment) String() string { return string(e) }

func (e Environment) Valid() error {
	switch e {
	case Development, Production, Staging, Testing:
		return nil
	}

	return fmt.Errorf("%w: unknown environment %q", ErrNotValid, string(e))
}

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsTesting() bool     { return e == Testing }

// SecureCookies asserts whether cookies ought to be marked Secure,
// which is everywhere but a developer's machine or a test run.
func (e Environment) SecureCookies() bool { return !e.IsDevelopment() && !e.IsTesting() }

// envVarOr parses the environment variable key,
// falling back to def when it is unset or parse rejects it.
func envVarOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}

	val, err := parse(raw)
	if err != nil {
		return def
	}

	return val
}

// EnvVarOrBool reads key as "true" or "false", in any case.
func EnvVarOrBool(key string, def bool) bool {
	return envVarOr(key, def, func(raw string) (bool, error) {
		switch strings.ToLower(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}

		return false, ErrNotValid
	})
}

// EnvVarOrDuration reads key as a [time.Duration], like "30s".
func EnvVarOrDuration(key string, def time.Duration) time.Duration {
	return envVarOr(key, def, time.ParseDuration)
}

// EnvVarOrEnv reads key as an [Environment], in any case.
func EnvVarOrEnv(key string, def Environment) Environment {
	return envVarOr(key, def, func(raw string) (Environment, error) {
		env := Environment(strings.ToUpper(raw))
		return env, env.Valid()
	})
}

// EnvVarOrLogLevel reads key as a [log/slog.Level].
// Names slog does not know, like "verbose", mean [log/slog.LevelInfo].
func EnvVarOrLogLevel(key string, def slog.Level) slog.Level {
	return envVarOr(key, def, func(raw string) (slog.Level, error) {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
			return slog.LevelInfo, nil
		}

		return lvl, nil
	})
}

// EnvVarOrString reads key as is.
func EnvVarOrString(key, def string) string {
	return envVarOr(key, def, func(raw string) (string, error) { return raw, nil })
}

// EnvVarOrURL reads key as an absolute URL, falling back to def.
// A def that is not itself a URL yields nil.
// A bare host in def, like "http://localhost:3000", gets the path "/".
func EnvVarOrURL(key, def string) *url.URL {
	fallback, err := url.ParseRequestURI(def)
	if err != nil {
		return nil
	}

	if fallback.Path == "" {
		fallback.Path = "/"
	}

	return envVarOr(key, fallback, url.ParseRequestURI)
}
