package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Command output goes to stdout, so the
// logger writes to stderr.
var Logger = logrus.New()

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// Init configures Logger. level is used when LOG_LEVEL is unset; an
// unparseable level falls back to info.
func Init(appName, level string) {
	Logger.SetOutput(os.Stderr)

	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	level = strings.ToLower(level)
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.Warnf("Invalid log level '%s', defaulting to INFO", level)
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)

	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Logger.ReplaceHooks(logrus.LevelHooks{})
	Logger.AddHook(&appNameHook{appName})
}
