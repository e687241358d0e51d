package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger собирает zap под окружение:
// production пишет JSON с уровня info, test только предупреждения и ошибки,
// development цветной консольный вывод с уровня debug.
func NewLogger(env string) *zap.Logger {
	config := loggerConfig(env)

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger.With(zap.String("service", "lab_booking"), zap.String("env", env))
}

func loggerConfig(env string) zap.Config {
	switch env {
	case "production":
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
		return config
	case "test":
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		config.OutputPaths = []string{"stderr"}
		return config
	default:
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.OutputPaths = []string{"stdout"}
		return config
	}
}
