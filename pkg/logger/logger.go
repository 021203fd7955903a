package logger

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ViBiOh/flags"
)

var exitFunc = os.Exit

type Config struct {
	level      *string
	json       *bool
	timeKey    *string
	levelKey   *string
	messageKey *string
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) Config {
	return Config{
		level:      flags.New("Level", "Logger level").Prefix(prefix).DocPrefix("logger").String(fs, "INFO", overrides),
		json:       flags.New("Json", "Log format as JSON").Prefix(prefix).DocPrefix("logger").Bool(fs, false, overrides),
		timeKey:    flags.New("TimeKey", "Key for timestamp in JSON").Prefix(prefix).DocPrefix("logger").String(fs, "time", overrides),
		levelKey:   flags.New("LevelKey", "Key for level in JSON").Prefix(prefix).DocPrefix("logger").String(fs, "level", overrides),
		messageKey: flags.New("MessageKey", "Key for message in JSON").Prefix(prefix).DocPrefix("logger").String(fs, "msg", overrides),
	}
}

// Init configures the default slog logger from the given Config
func Init(ctx context.Context, config Config) {
	level, err := parseLevel(*config.level)

	slog.SetDefault(configureLogger(os.Stdout, level, *config.json, *config.timeKey, *config.levelKey, *config.messageKey))

	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "parse logger level", slog.Any("error", err))
	}
}

func FatalfOnErr(ctx context.Context, err error, msg string, args ...slog.Attr) {
	if err == nil {
		return
	}

	args = append(args, slog.Any("error", err))
	slog.LogAttrs(ctx, slog.LevelError, msg, args...)
	exitFunc(1)
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid value `%s` for level: %w", value, err)
	}

	return level, nil
}

func configureLogger(writer io.Writer, level slog.Level, json bool, timeKey, levelKey, messageKey string) *slog.Logger {
	replacer := func(groups []string, attr slog.Attr) slog.Attr {
		if len(groups) == 0 {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = timeKey
			case slog.LevelKey:
				attr.Key = levelKey
			case slog.MessageKey:
				attr.Key = messageKey
			}
		}

		if attr.Value.Kind() == slog.KindAny {
			if err, ok := attr.Value.Any().(error); ok {
				return slog.Any(attr.Key, ErrorField(err))
			}
		}

		return attr
	}

	options := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replacer,
	}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(writer, options)
	} else {
		handler = slog.NewTextHandler(writer, options)
	}

	return slog.New(handler)
}
