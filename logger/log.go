package logger

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger interface {
	Info(msg string)
	Error(msg string, err error)
	Debug(msg string)
}

type TarotLogger struct {
	logger zerolog.Logger
}

func New(loggerName string) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Str("logger", loggerName).
		Logger()
	return TarotLogger{zl}
}

func (tl TarotLogger) Info(msg string) {
	tl.logger.Info().Msg(msg)
}

func (tl TarotLogger) Error(msg string, err error) {
	if err != nil {
		tl.logger.Error().Err(err).Msg(msg)
		return
	}
	tl.logger.Error().Msg(msg)
}

func (tl TarotLogger) Debug(msg string) {
	tl.logger.Debug().Msg(msg)
}
