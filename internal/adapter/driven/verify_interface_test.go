package driven

import (
	port "github.com/alorle/iptv-viewer/internal/port/driven"
)

// Compile-time checks that every source decorator can be stacked on another.
var (
	_ port.PlaylistSource = (*PlaylistHTTPSource)(nil)
	_ port.PlaylistSource = (*PlaylistFileSource)(nil)
	_ port.PlaylistSource = (*CachedPlaylistSource)(nil)
	_ port.PlaylistSource = (*BreakerPlaylistSource)(nil)
)

// Compile-time checks for the BoltDB repositories
var (
	_ port.FavoriteRepository = (*FavoriteBoltDBRepository)(nil)
	_ port.SettingsRepository = (*SettingsBoltDBRepository)(nil)
)
