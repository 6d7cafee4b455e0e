package logger

import (
	"go.uber.org/zap"
)

var Log *zap.Logger

func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	Log = l
	return l
}

// Named 返回带组件名的子 logger
func Named(component string) *zap.Logger {
	if Log == nil {
		return NewLogger().Named(component)
	}
	return Log.Named(component)
}
