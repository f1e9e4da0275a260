package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
)

var rootLogger *slog.Logger

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorWhite  = "\033[37m"
	colorGray   = "\033[90m"
)

func init() {
	var stdoutLevel slog.Level
	debugEnabled, _ := strconv.ParseBool(os.Getenv("TABLEHUNT_DEBUG"))
	if debugEnabled {
		stdoutLevel = slog.LevelDebug
	} else {
		stdoutLevel = slog.LevelInfo
	}

	colorHandler := &customHandler{
		w:          os.Stdout,
		level:      stdoutLevel,
		withColors: true,
	}

	// The file sink is opt-in; a library must not create files in the
	// working directory on its own.
	if path := os.Getenv("TABLEHUNT_LOG"); path != "" {
		if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			fileHandler := &customHandler{
				w:          file,
				level:      slog.LevelDebug,
				withColors: false,
			}
			rootLogger = slog.New(&multiHandler{file: fileHandler, stdout: colorHandler})
			return
		}
	}
	rootLogger = slog.New(colorHandler)
}

// GetLogger returns a logger with the given prefix for easier filtering
func GetLogger(prefix string) *slog.Logger {
	return rootLogger.With("module", prefix)
}

type customHandler struct {
	w          io.Writer
	level      slog.Level
	attrs      []slog.Attr
	group      string
	withColors bool
}

func (h *customHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *customHandler) Handle(_ context.Context, record slog.Record) error {
	var color string
	var levelStr string

	switch record.Level {
	case slog.LevelDebug:
		color = colorWhite
		levelStr = "DEBUG"
	case slog.LevelInfo:
		color = colorBlue
		levelStr = "INFO"
	case slog.LevelWarn:
		color = colorYellow
		levelStr = "WARNING"
	case slog.LevelError:
		color = colorRed
		levelStr = "ERROR"
	default:
		color = colorWhite
		levelStr = record.Level.String()
	}

	timeStr := record.Time.Format("15:04:05")

	var modulePrefix string
	var argsStr string
	hasOtherAttrs := false

	collect := func(a slog.Attr) {
		if a.Key == "module" {
			modulePrefix = fmt.Sprintf("%v", a.Value)
			return
		}
		if !hasOtherAttrs {
			argsStr = " ("
			hasOtherAttrs = true
		} else {
			argsStr += ", "
		}
		argsStr += fmt.Sprintf("%s=%v", a.Key, a.Value)
	}

	for _, a := range h.attrs {
		collect(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	if hasOtherAttrs {
		argsStr += ")"
	}

	// Format: [module] <LEVEL>: <msg> (<args>) [HH:MM:SS]
	var prefix string
	if modulePrefix != "" {
		if h.withColors {
			prefix = fmt.Sprintf("%s[%s]%s ", colorGray, modulePrefix, colorReset)
		} else {
			prefix = fmt.Sprintf("[%s] ", modulePrefix)
		}
	}

	if h.withColors {
		_, err := fmt.Fprintf(h.w, "%s%s%s%s: %s%s [%s]\n",
			prefix,
			color, levelStr, colorReset,
			record.Message,
			argsStr,
			timeStr)
		return err
	}
	_, err := fmt.Fprintf(h.w, "%s%s: %s%s [%s]\n",
		prefix,
		levelStr,
		record.Message,
		argsStr,
		timeStr)
	return err
}

func (h *customHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &customHandler{
		w:          h.w,
		level:      h.level,
		attrs:      newAttrs,
		group:      h.group,
		withColors: h.withColors,
	}
}

func (h *customHandler) WithGroup(name string) slog.Handler {
	return &customHandler{
		w:          h.w,
		level:      h.level,
		attrs:      h.attrs,
		group:      name,
		withColors: h.withColors,
	}
}

type multiHandler struct {
	file   slog.Handler
	stdout slog.Handler
}

func (mh *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return mh.file.Enabled(ctx, level) || mh.stdout.Enabled(ctx, level)
}

func (mh *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	if mh.file.Enabled(ctx, record.Level) {
		if err := mh.file.Handle(ctx, record); err != nil {
			return err
		}
	}
	if mh.stdout.Enabled(ctx, record.Level) {
		if err := mh.stdout.Handle(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (mh *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{
		file:   mh.file.WithAttrs(attrs),
		stdout: mh.stdout.WithAttrs(attrs),
	}
}

func (mh *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{
		file:   mh.file.WithGroup(name),
		stdout: mh.stdout.WithGroup(name),
	}
}
