package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger. The format is human
// readable for "human" and JSON otherwise; unknown levels fall back to info.
func SetupLogging(format, level string) {
	output := io.Writer(os.Stdout)
	if format == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(output).With().Timestamp().Logger()
}
