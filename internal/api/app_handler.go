package api

import (
	"log/slog"
	"net/http"

	"github.com/filedepot/filedepot-api/internal/api/shared"
	"github.com/filedepot/filedepot-api/internal/config"
	"github.com/filedepot/filedepot-api/internal/platform/ready"
	"github.com/filedepot/filedepot-api/internal/store"
)

// AppHandler serves the service-level status and stats endpoints.
type AppHandler struct {
	cachePinger ready.Pinger
	dbPinger    ready.Pinger
	users       store.UserStore
	files       store.FileStore
	readiness   config.ReadinessConfig
	logger      *slog.Logger
}

// NewAppHandler creates an AppHandler with the given dependencies.
func NewAppHandler(
	cachePinger ready.Pinger,
	dbPinger ready.Pinger,
	users store.UserStore,
	files store.FileStore,
	readiness config.ReadinessConfig,
	logger *slog.Logger,
) *AppHandler {
	return &AppHandler{
		cachePinger: cachePinger,
		dbPinger:    dbPinger,
		users:       users,
		files:       files,
		readiness:   readiness,
		logger:      logger,
	}
}

// Status handles GET /status. Both backing services are probed with the
// bounded readiness wait; exhausting the budget yields a 500.
func (h *AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	if err := h.waitForDependencies(r); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to connect to Redis or Database", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		Redis: true,
		DB:    true,
	})
}

// Stats handles GET /stats.
func (h *AppHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if err := h.waitForDependencies(r); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get stats from Redis or Database", err)
		return
	}

	nbUsers, err := h.users.Count(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get stats from Redis or Database", err)
		return
	}

	nbFiles, err := h.files.Count(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get stats from Redis or Database", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatsResponse{
		Users: nbUsers,
		Files: nbFiles,
	})
}

func (h *AppHandler) waitForDependencies(r *http.Request) error {
	ctx := r.Context()

	if err := ready.Wait(ctx, "cache", h.cachePinger,
		h.readiness.Attempts, h.readiness.Interval, h.logger); err != nil {
		return err
	}
	return ready.Wait(ctx, "db", h.dbPinger,
		h.readiness.Attempts, h.readiness.Interval, h.logger)
}
