package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements Logger on top of zerolog. Fields attached with
// WithFields are carried by every event of the derived adapter.
type ZerologAdapter struct {
	logger zerolog.Logger
	level  LogLevel
}

func NewZerolog(writer io.Writer, level LogLevel) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level.zerolog()).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger, level: level}
}

// NewConsoleLogger writes human-readable lines to stderr so stdout stays
// free for command output.
func NewConsoleLogger(level LogLevel) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	return NewZerolog(consoleWriter, level)
}

func (z *ZerologAdapter) Level() LogLevel { return z.level }

// WithFields returns a child adapter that adds fields to every event.
func (z *ZerologAdapter) WithFields(fields map[string]interface{}) *ZerologAdapter {
	return &ZerologAdapter{
		logger: z.logger.With().Fields(fields).Logger(),
		level:  z.level,
	}
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	z.emit(z.logger.Debug(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	z.emit(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	z.emit(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	z.emit(z.logger.Error(), component, fields).Err(err).Msg("operation failed")
}

// emit tolerates the nil event zerolog returns for disabled levels.
func (z *ZerologAdapter) emit(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	return event.Str("component", component)
}
