package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/datasweeper/internal/sweeper"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.sweeper.enabled") {
		closer, err := sweeper.New(sweeper.Dependency{
			Config:    a.config,
			Router:    a.router,
			Registry:  a.registry,
			Validator: a.validator,
			Context:   a.ctx,
			ID:        a.uuid,
			DatasetID: a.datasetID,
		})
		if err != nil {
			slog.Error("failed to init module sweeper", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			a.addCloser("Sweeper", closer)
		}
	}
}
