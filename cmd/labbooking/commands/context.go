package commands

import (
	"context"

	"github.com/Freeeeeet/lab_booking/internal/config"
	"go.uber.org/zap"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
}
