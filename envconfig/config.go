// Package envconfig reads char_bpe settings from the environment.
package envconfig

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultPort      = "8411"
	DefaultVocabSize = 1000
	DefaultMaxStates = 64
)

// Host returns the address the HTTP API listens on.
// Configurable via CHARBPE_HOST
// Default: 127.0.0.1:8411
func Host() string {
	s := strings.TrimSpace(Var("CHARBPE_HOST"))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "http://"), "https://")
	s, _, _ = strings.Cut(s, "/")
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		host, port = "127.0.0.1", DefaultPort
		if ip := net.ParseIP(strings.Trim(s, "[]")); ip != nil {
			host = ip.String()
		} else if s != "" {
			host = s
		}
	}
	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", DefaultPort)
		port = DefaultPort
	}
	return net.JoinHostPort(host, port)
}

// AllowedOrigins returns the CORS origins for the HTTP API.
// Configurable via CHARBPE_ORIGINS (comma separated)
// Localhost origins are always allowed.
func AllowedOrigins() (origins []string) {
	if s := Var("CHARBPE_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}
	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			"http://"+origin,
			"https://"+origin,
			"http://"+net.JoinHostPort(origin, "*"),
			"https://"+net.JoinHostPort(origin, "*"),
		)
	}
	return origins
}

// VocabSize is the target vocabulary size used when none is given.
// Configurable via CHARBPE_VOCAB_SIZE
var VocabSize = Uint("CHARBPE_VOCAB_SIZE", DefaultVocabSize)

// MaxStates bounds how many trained states the HTTP API keeps.
// Configurable via CHARBPE_MAX_STATES
var MaxStates = Uint("CHARBPE_MAX_STATES", DefaultMaxStates)

// Debug enables verbose logging.
// Configurable via CHARBPE_DEBUG
var Debug = Bool("CHARBPE_DEBUG")

func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

func Bool(k string) func() bool {
	return func() bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return false
	}
}

func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap describes every setting with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"CHARBPE_HOST":       {"CHARBPE_HOST", Host(), "Address of the HTTP API (default 127.0.0.1:8411)"},
		"CHARBPE_ORIGINS":    {"CHARBPE_ORIGINS", AllowedOrigins(), "Comma separated list of allowed origins"},
		"CHARBPE_VOCAB_SIZE": {"CHARBPE_VOCAB_SIZE", VocabSize(), "Default target vocabulary size"},
		"CHARBPE_MAX_STATES": {"CHARBPE_MAX_STATES", MaxStates(), "Maximum number of trained states kept by the HTTP API"},
		"CHARBPE_DEBUG":      {"CHARBPE_DEBUG", Debug(), "Show additional debug information"},
	}
}
