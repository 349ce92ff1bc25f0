package logging

import (
	"os"
	"time"

	"github.com/illusionman1212/gift/oops"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel keeps a library quiet unless the host program asks for more.
const DefaultLevel = zerolog.WarnLevel

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).Level(DefaultLevel)

// Logger returns the logger every package of this module writes to.
func Logger() *zerolog.Logger {
	return &logger
}

// SetLogger replaces the module's logger, level included.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// SetLevel parses a zerolog level name ("debug", "info", ...) and applies it
// to the module's logger.
func SetLevel(name string) error {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return oops.New(err, "invalid log level %q", name)
	}
	logger = logger.Level(level)
	return nil
}

// InstallGlobals makes the module's logger zerolog's global logger and lets
// zerolog print oops call stacks. It changes process-wide state, so only
// programs call it.
func InstallGlobals() {
	zerolog.ErrorStackMarshaler = oops.ZerologStackMarshaler
	log.Logger = logger
}

func Trace() *zerolog.Event {
	return logger.Trace().Timestamp()
}

func Debug() *zerolog.Event {
	return logger.Debug().Timestamp()
}

func Info() *zerolog.Event {
	return logger.Info().Timestamp()
}

func Warn() *zerolog.Event {
	return logger.Warn().Timestamp()
}

func Error() *zerolog.Event {
	return logger.Error().Timestamp().Stack()
}

func With() zerolog.Context {
	return logger.With().Stack()
}
