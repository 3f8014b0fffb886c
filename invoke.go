package ftpc

import (
	"log/slog"
	"strings"
)

// Invoke brackets a command-shaped operation with logging: the
// upper-cased command name and its arguments are logged at debug level
// before the call, and any failure is logged with the command context
// at error level. The operation's result and error are returned
// unchanged; this is a pass-through annotator, never a fault sink.
//
// Every Client protocol method routes through Invoke, and callers
// composing their own commands (e.g. via Quote) can use it the same way.
func Invoke[T any](logger *slog.Logger, name string, args []string, fn func() (T, error)) (T, error) {
	if logger == nil {
		logger = slog.Default()
	}
	name = strings.ToUpper(name)

	logger.Debug("ftp command", "cmd", name, "args", args)

	result, err := fn()
	if err != nil {
		logger.Error("ftp command failed", "cmd", name, "err", err)
	}
	return result, err
}
