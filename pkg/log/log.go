package log

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"
)

// osExit is a variable for os.Exit to make it mockable in tests
var osExit = os.Exit

// LogLevel define log level
type LogLevel int

const (
	// DEBUG only shown in verbose mode
	DEBUG LogLevel = iota
	// INFO normal progress messages
	INFO
	// WARN recoverable problems
	WARN
	// ERROR failed operations
	ERROR
	// FATAL always shown, exits the program
	FATAL
)

var (
	verbose bool
	// quiet hides progress output but keeps warnings and errors
	quiet             bool
	level             LogLevel = INFO
	colorEnabled               = true
	stackTraceEnabled bool
)

// EnvStackTrace enables stack traces on fatal errors when set to 1, true or yes
const EnvStackTrace = "PRINT_STACK_TRACE"

func init() {
	stackTraceEnv := os.Getenv(EnvStackTrace)
	stackTraceEnabled = stackTraceEnv == "1" || stackTraceEnv == "true" || stackTraceEnv == "yes"
}

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorPurple = "\033[35m"
)

// SetVerbose enables debug output
func SetVerbose(v bool) {
	verbose = v
	if v {
		level = DEBUG
	}
}

// IsVerbose return if verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// SetQuiet hides info and progress output. Warnings and errors are still printed.
func SetQuiet(q bool) {
	quiet = q
	if q && level < WARN {
		level = WARN
	}
	if !q && level == WARN {
		level = INFO
	}
}

// IsQuiet return if quiet mode is enabled
func IsQuiet() bool {
	return quiet
}

// SetLevel set log level
func SetLevel(l LogLevel) {
	level = l
}

// GetLevel get current log level
func GetLevel() LogLevel {
	return level
}

// EnableColor enables color output
func EnableColor(enabled bool) {
	colorEnabled = enabled
}

// IsColorEnabled returns if color output is enabled
func IsColorEnabled() bool {
	return colorEnabled
}

// EnableStackTrace enables or disables stack trace on fatal errors
func EnableStackTrace(enabled bool) {
	stackTraceEnabled = enabled
}

// IsStackTraceEnabled returns if stack trace is enabled
func IsStackTraceEnabled() bool {
	return stackTraceEnabled
}

func getLevelColor(l LogLevel) string {
	if !colorEnabled {
		return ""
	}

	switch l {
	case DEBUG:
		return ColorCyan
	case INFO:
		return ColorGreen
	case WARN:
		return ColorYellow
	case ERROR:
		return ColorRed
	case FATAL:
		return ColorPurple
	default:
		return ""
	}
}

func getLevelPrefix(prefix string, l LogLevel) string {
	if !colorEnabled {
		return prefix
	}
	return getLevelColor(l) + prefix + ColorReset
}

const timeFormat = "2006/01/02 15:04:05"

func write(prefix string, l LogLevel, msg string) {
	if l < level {
		return
	}
	timeStr := time.Now().Format(timeFormat)
	fmt.Fprintf(os.Stdout, "[%s] %s: %s\n", timeStr, getLevelPrefix(prefix, l), msg)
}

func fatalExit() {
	if stackTraceEnabled {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
	} else {
		fmt.Fprintf(os.Stderr, "For detailed stack trace, set %s=1\n", EnvStackTrace)
	}
	osExit(1)
}

// Info output normal info log
func Info(args ...any) {
	write("INFO", INFO, fmt.Sprint(args...))
}

// Infof output formatted normal info log
func Infof(format string, args ...any) {
	write("INFO", INFO, fmt.Sprintf(format, args...))
}

// Warn output warning log
func Warn(args ...any) {
	write("WARN", WARN, fmt.Sprint(args...))
}

// Warnf output formatted warning log
func Warnf(format string, args ...any) {
	write("WARN", WARN, fmt.Sprintf(format, args...))
}

// Error output error log
func Error(args ...any) {
	write("ERROR", ERROR, fmt.Sprint(args...))
}

// Errorf output formatted error log
func Errorf(format string, args ...any) {
	write("ERROR", ERROR, fmt.Sprintf(format, args...))
}

// Fatal output fatal log and exit program
func Fatal(args ...any) {
	write("FATAL", FATAL, fmt.Sprint(args...))
	fatalExit()
}

// Fatalf output formatted fatal log and exit program
func Fatalf(format string, args ...any) {
	write("FATAL", FATAL, fmt.Sprintf(format, args...))
	fatalExit()
}

// Debug output debug log (only effective in verbose mode)
func Debug(args ...any) {
	write("DEBUG", DEBUG, fmt.Sprint(args...))
}

// Debugf output formatted debug log (only effective in verbose mode)
func Debugf(format string, args ...any) {
	write("DEBUG", DEBUG, fmt.Sprintf(format, args...))
}

// Writer returns an io.Writer that logs each written chunk at DEBUG level.
// It is used to surface protocol traces in verbose mode.
func Writer(prefix string) *DebugWriter {
	return &DebugWriter{prefix: prefix}
}

// DebugWriter forwards protocol traces to Debug
type DebugWriter struct {
	prefix string
}

func (w *DebugWriter) Write(p []byte) (int, error) {
	if DEBUG >= level {
		msg := string(p)
		for len(msg) > 0 && (msg[len(msg)-1] == '\n' || msg[len(msg)-1] == '\r') {
			msg = msg[:len(msg)-1]
		}
		if msg != "" {
			write("DEBUG", DEBUG, w.prefix+msg)
		}
	}
	return len(p), nil
}
