package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelCore pins a core to a minimum level regardless of the logger it came from.
type levelCore struct {
	zapcore.Core

	// minimum is the lowest level this core lets through.
	minimum zapcore.Level
}

// Enabled reports whether l is at or above the pinned level.
func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.minimum.Enabled(l)
}

// Check adds the core to ce when the entry level passes the pinned level.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the pinned level on derived cores.
//
//nolint:ireturn // zap requires the interface type.
func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{
		Core:    c.Core.With(fields),
		minimum: c.minimum,
	}
}

// WithLevel raises the minimum level of an existing logger, e.g. to keep
// machine-readable command output free of info lines.
//
//nolint:ireturn // zap.Option is an interface.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{
			Core:    core,
			minimum: lvl,
		}
	})
}
