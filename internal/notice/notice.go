// Package notice carries user-facing messages that are not hard errors.
package notice

import "fmt"

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message for the user. Warnings mean the action happened in
// degraded form; errors mean it did not happen.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Info(format string, args ...interface{}) Notice {
	return Notice{Level: LevelInfo, Message: fmt.Sprintf(format, args...)}
}

func Warning(format string, args ...interface{}) Notice {
	return Notice{Level: LevelWarning, Message: fmt.Sprintf(format, args...)}
}

func Error(format string, args ...interface{}) Notice {
	return Notice{Level: LevelError, Message: fmt.Sprintf(format, args...)}
}

func (n Notice) IsWarning() bool {
	return n.Level == LevelWarning
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}
