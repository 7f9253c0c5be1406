package util

import (
	"sync"
)

var (
	globalLogger LoggerInterface = NewNopLogger()
	globalMu     sync.RWMutex
	loggerOnce   sync.Once
)

// InitLogger installs the process-wide logger. Only the first call wins.
func InitLogger(cfg LoggerConfig) error {
	var initErr error
	loggerOnce.Do(func() {
		logger, err := NewLogger(cfg)
		if err != nil {
			initErr = err
			return
		}
		SetLogger(logger)
	})
	return initErr
}

// SetLogger replaces the global logger; tests use it to capture output.
func SetLogger(logger LoggerInterface) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if logger == nil {
		logger = NewNopLogger()
	}
	globalLogger = logger
}

// Log returns the global logger.
func Log() LoggerInterface {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Component returns the global logger scoped to a component name.
func Component(name string) LoggerInterface {
	return Log().WithComponent(name)
}

func LogInfo(msg string) {
	Log().Info(msg)
}

func LogInfof(format string, args ...interface{}) {
	Log().Infof(format, args...)
}

func LogDebug(msg string) {
	Log().Debug(msg)
}

func LogDebugf(format string, args ...interface{}) {
	Log().Debugf(format, args...)
}

func LogWarn(msg string) {
	Log().Warn(msg)
}

func LogWarnf(format string, args ...interface{}) {
	Log().Warnf(format, args...)
}

func LogError(msg string) {
	Log().Error(msg)
}

func LogErrorf(format string, args ...interface{}) {
	Log().Errorf(format, args...)
}
