// Package main provides a command line tool for inspecting M3U playlists.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/m3u"
	"github.com/alorle/iptv-viewer/internal/organizer"
)

const maxPlaylistBytes = 32 << 20

var (
	app     = kingpin.New("playlistctl", "Inspect and normalize M3U playlists")
	timeout = app.Flag("timeout", "Timeout for remote playlists").Default("30s").Envar("FETCH_TIMEOUT").Duration()
	verbose = app.Flag("verbose", "Log retrieval details to stderr").Short('v').Bool()

	// parse command
	parseCmd     = app.Command("parse", "List the channels of a playlist by group")
	parseSource  = parseCmd.Arg("source", "Playlist URL or file path").Required().String()
	parseQuery   = parseCmd.Flag("query", "Only list channels whose title contains this text").Short('q').String()
	parseFlat    = parseCmd.Flag("flat", "Do not group channels").Bool()
	parseDetails = parseCmd.Flag("details", "Print urls and attributes").Short('d').Bool()

	// groups command
	groupsCmd    = app.Command("groups", "List the groups of a playlist with their channel counts")
	groupsSource = groupsCmd.Arg("source", "Playlist URL or file path").Required().String()

	// export command
	exportCmd    = app.Command("export", "Write a normalized copy of a playlist to stdout")
	exportSource = exportCmd.Arg("source", "Playlist URL or file path").Required().String()
	exportQuery  = exportCmd.Flag("query", "Only export channels whose title contains this text").Short('q').String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	switch command {
	case parseCmd.FullCommand():
		playlist := load(ctx, logger, *parseSource)
		printChannels(organizer.Filter(playlist, *parseQuery), !*parseFlat, *parseDetails)
	case groupsCmd.FullCommand():
		printGroups(load(ctx, logger, *groupsSource))
	case exportCmd.FullCommand():
		playlist := load(ctx, logger, *exportSource)
		encoder := m3u.NewEncoder()
		encoder.AddChannels(organizer.Filter(playlist, *exportQuery))
		if err := encoder.Encode(os.Stdout); err != nil {
			app.Fatalf("failed to write playlist: %v", err)
		}
	}
}

// load returns the channels of source. Any error, an empty playlist
// included, is fatal.
func load(ctx context.Context, logger *slog.Logger, source string) []channel.Channel {
	playlist, stats, err := loadPlaylist(ctx, logger, source, *timeout, maxPlaylistBytes)
	if err != nil {
		app.Fatalf("%v", err)
	}
	if stats.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d directive(s) without a url were skipped\n", stats.Dropped)
	}
	return playlist
}

func printChannels(channels []channel.Channel, grouped, details bool) {
	if len(channels) == 0 {
		fmt.Println("No channels match.")
		return
	}

	if !grouped {
		for _, ch := range channels {
			printChannel(ch, "", details)
		}
		return
	}

	for _, g := range organizer.Groups(channels) {
		fmt.Printf("\n=== %s (%d) ===\n", g.Label, len(g.Channels))
		for _, ch := range g.Channels {
			printChannel(ch, "  ", details)
		}
	}
}

func printChannel(ch channel.Channel, indent string, details bool) {
	fmt.Printf("%s%s\n", indent, ch.Title())
	if !details {
		return
	}
	fmt.Printf("%s  URL: %s\n", indent, ch.URL())
	if id, ok := ch.ID().Get(); ok {
		fmt.Printf("%s  ID: %s\n", indent, id)
	}
	if logo, ok := ch.Logo().Get(); ok {
		fmt.Printf("%s  Logo: %s\n", indent, logo)
	}
}

func printGroups(playlist []channel.Channel) {
	for _, g := range organizer.Groups(playlist) {
		fmt.Printf("%-40s %d\n", g.Label, len(g.Channels))
	}
	fmt.Printf("\nTotal: %d channels\n", len(playlist))
}
