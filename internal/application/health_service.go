package application

import (
	"context"

	"github.com/alorle/iptv-viewer/internal/metrics"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// HealthService orchestrates health checks for the application and its dependencies.
type HealthService struct {
	db        driven.FavoriteRepository
	playlists driven.PlaylistRepository
}

// NewHealthService creates a new health check service.
func NewHealthService(db driven.FavoriteRepository, playlists driven.PlaylistRepository) *HealthService {
	return &HealthService{
		db:        db,
		playlists: playlists,
	}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok" or "error"
	Error  string // empty if status is "ok", otherwise contains error message
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status   string          // "ok" if all components are healthy, "degraded" otherwise
	DB       ComponentHealth // database health
	Channels int             // channels in the current playlist, informational
}

// Check performs health checks on all dependencies.
// Returns the overall health status and individual component statuses.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status: "ok",
		DB:     ComponentHealth{Status: "ok"},
	}

	if err := s.db.Ping(ctx); err != nil {
		status.DB = ComponentHealth{
			Status: "error",
			Error:  err.Error(),
		}
		status.Status = "degraded"
		metrics.RecordHealthCheckFailure()
	}

	if playlist, err := s.playlists.Current(ctx); err == nil {
		status.Channels = len(playlist.Channels)
	}

	return status
}
