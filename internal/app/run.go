package app

import (
	"context"

	"github.com/vk/mazeharness/internal/artifacts"
	"github.com/vk/mazeharness/internal/ctxlog"
	"github.com/vk/mazeharness/internal/sim"
)

// Run executes one attempt and returns its result. The error is non-nil only
// when no artifacts folder could be created.
func (a *App) Run(ctx context.Context) (*artifacts.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.startHealthCheckServer(ctx); err != nil {
		a.logger.Error("Health check server not started.", "error", err)
	}
	defer a.closeHealthCheckServer(ctx)

	clock := a.engine.NewClock()
	if rt, ok := clock.(*sim.RealtimeClock); ok {
		defer rt.Stop()
	}

	a.logger.Info("🚀 Starting attempt...")
	res, err := a.orchestrator.Run(ctx, clock)
	if err != nil {
		return nil, err
	}
	a.logger.Info("🏁 Attempt finished.", "status", res.Status, "result", res.Artifacts.Result)

	a.logger.Debug("App.Run method finished.")
	return res, nil
}
