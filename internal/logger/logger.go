package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnv overrides the level chosen from the command line.
const LevelEnv = "VMSGEN_LOG_LEVEL"

// New returns a console logger writing to w. Info is the default level,
// debug when verbose; a valid VMSGEN_LOG_LEVEL wins over both.
func New(w io.Writer, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(output).
		With().
		Timestamp().
		Logger().
		Level(level(verbose))
}

// Init builds the stderr logger and installs it as the global logger.
func Init(verbose bool) zerolog.Logger {
	l := New(os.Stderr, verbose)
	log.Logger = l
	return l
}

func level(verbose bool) zerolog.Level {
	if s := strings.TrimSpace(os.Getenv(LevelEnv)); s != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil {
			return lvl
		}
	}
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
