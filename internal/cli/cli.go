package cli

import (
	"os"

	"evertale-team-optimiser/internal/helpers"

	"github.com/rs/zerolog"
)

type Flags struct {
	PurgeCache   bool
	UseCache     bool
	CacheOnly    bool
	PurgeLayouts bool
	TestRun      bool
	LogLevel     string
	DoctrineFile string
	PresetTag    string
	PresetMode   string
	Profile      string
}

func constructFlags() Flags {
	return Flags{
		PurgeCache:   false,
		UseCache:     false,
		CacheOnly:    false,
		PurgeLayouts: false,
		TestRun:      false,
		LogLevel:     "info",
		PresetMode:   "off",
	}
}

func GetFlags() Flags {
	flags := constructFlags()
	if HasFlag("--purge-cache") {
		flags.PurgeCache = true
	}
	if HasFlag("--use-cache") {
		flags.UseCache = true
	}
	if HasFlag("--cache-only") {
		flags.CacheOnly = true
	}
	if HasFlag("--purge-layouts") {
		flags.PurgeLayouts = true
	}
	if HasFlag("--test-run") {
		flags.TestRun = true
	}
	if value, ok := GetFlagValue("--log-level"); ok {
		flags.LogLevel = value
	}
	if value, ok := GetFlagValue("--doctrine"); ok {
		flags.DoctrineFile = value
	}
	if value, ok := GetFlagValue("--preset"); ok {
		flags.PresetTag = value
	}
	if value, ok := GetFlagValue("--preset-mode"); ok {
		flags.PresetMode = value
	}
	if value, ok := GetFlagValue("--profile"); ok {
		flags.Profile = value
	}

	return flags
}

func HasFlag(flag string) bool {
	if helpers.ContainsStr(os.Args, flag) {
		return true
	}

	return false
}

// GetFlagValue returns the argument following the given flag, e.g.
// "--preset burn" yields ("burn", true).
func GetFlagValue(flag string) (string, bool) {
	for i := 0; i < len(os.Args)-1; i++ {
		if os.Args[i] == flag {
			return os.Args[i+1], true
		}
	}

	return "", false
}

func SetLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
