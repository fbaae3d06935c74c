package driver

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alorle/iptv-viewer/internal/application"
)

// Services holds the application services exposed over HTTP.
type Services struct {
	Playlists *application.PlaylistService
	Browse    *application.BrowseService
	Favorites *application.FavoriteService
	Export    *application.ExportService
	Health    *application.HealthService
}

// NewRouter configures all HTTP routes: the JSON API under /api/, the M3U
// export and Prometheus metrics at the root. Every request is logged.
func NewRouter(services Services, logger *slog.Logger) http.Handler {
	playlistHandler := NewPlaylistHTTPHandler(services.Playlists, logger)
	favoriteHandler := NewFavoriteHTTPHandler(services.Favorites)

	apiMux := http.NewServeMux()
	apiMux.Handle("/playlist", playlistHandler)
	apiMux.Handle("/playlist/", playlistHandler)
	apiMux.Handle("/channels", NewChannelHTTPHandler(services.Browse))
	apiMux.Handle("/favorites", favoriteHandler)
	apiMux.Handle("/favorites/", favoriteHandler)
	apiMux.Handle("/health", NewHealthHTTPHandler(services.Health))

	rootMux := http.NewServeMux()
	rootMux.Handle("/api/", http.StripPrefix("/api", apiMux))
	rootMux.Handle("/playlist.m3u", NewExportHTTPHandler(services.Export))
	rootMux.Handle("/metrics", promhttp.Handler())

	return RequestLogger(logger)(rootMux)
}
