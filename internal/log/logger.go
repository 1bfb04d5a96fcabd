package log

import (
	"context"
	"fmt"
	"io"
	"os"

	"romselect/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Logger wraps a logrus entry so fields can be chained per call site.
type Logger struct {
	entry *logrus.Entry
	out   io.Writer
	file  *os.File
}

// Field is a single structured key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends log lines to w instead of stderr
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithFile additionally appends log lines to the named file
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// NewLogger creates a logger. Output defaults to stderr so stdout stays
// reserved for the menu.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l := &Logger{out: o.out}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(o.out, "cannot open log file %s: %v\n", o.file, err)
		} else {
			l.file = f
			out = io.MultiWriter(o.out, f)
		}
	}
	base.SetOutput(out)

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger, closing the log file of the
// one it replaces
func Configure(opts ...Option) {
	previous := logger
	logger = NewLogger(opts...)
	if previous != nil {
		_ = previous.Close()
	}
}

// Close closes the log file of the package-level logger, if any
func Close() error {
	return logger.Close()
}

// Close releases the log file opened by WithFile, if any. Later entries
// go to the primary output only.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.entry.Logger.SetOutput(l.out)
	err := l.file.Close()
	l.file = nil
	return err
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	isDebug = debug
}

// IsDebug reports whether debug output is enabled
func IsDebug() bool {
	return isDebug
}

// With returns a child logger carrying the given fields
func (l *Logger) With(fields ...Field) *Logger {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(lf), out: l.out, file: l.file}
}

// WithContext attaches ctx to the entries logged through the child
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), out: l.out, file: l.file}
}

// WithError returns a child logger describing err, including the details
// of the typed errors in its chain.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error())}

	var appErr *errors.ApplicationError
	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	var extErr *errors.ExtensionError
	var toolErr *errors.ToolError

	switch {
	case errors.As(err, &toolErr):
		fields = append(fields, F("error_kind", int(toolErr.Kind())), F("operation", toolErr.Operation()))
		if toolErr.ExitCode() >= 0 {
			fields = append(fields, F("exit_code", toolErr.ExitCode()))
		}
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", int(configErr.Kind())), F("param", configErr.Param()))
	case errors.As(err, &extErr):
		fields = append(fields, F("error_kind", int(extErr.Kind())), F("extension", extErr.Extension()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("error_kind", int(fileErr.Kind())), F("path", fileErr.Path()))
	case errors.As(err, &appErr):
		fields = append(fields, F("error_kind", int(appErr.Kind())))
	}

	return l.With(fields...)
}

func (l *Logger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Debug logs only when debug output is enabled
func (l *Logger) Debug(args ...interface{}) {
	if isDebug {
		l.entry.Debug(args...)
	}
}

// Debugf logs a formatted message only when debug output is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.entry.Debugf(format, args...)
	}
}

// LogWithFields returns a child of the package-level logger
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns a child of the package-level logger describing err
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs msg at error level together with err's details
func LogError(err error, msg string) {
	logger.WithError(err).Error(msg)
}

func Info(args ...interface{}) {
	logger.Info(args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message when debug output is enabled
func Debug(args ...interface{}) {
	logger.Debug(args...)
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Warn logs a warning message
func Warn(args ...interface{}) {
	logger.Warn(args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Error logs an error message
func Error(args ...interface{}) {
	logger.Error(args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
