// smarthub is the display client: a full-screen terminal dashboard with
// clock, weather, forecast, settings, and the photo screensaver.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubward/smarthub/api/client"
	"github.com/hubward/smarthub/config"
	"github.com/hubward/smarthub/gallery"
	"github.com/hubward/smarthub/hub"
	"github.com/hubward/smarthub/store"
	"github.com/hubward/smarthub/weather"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := store.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}
	defer db.Close()

	hubClient := client.NewHubClient(cfg.ServerURL)
	library := gallery.New(db, hubClient)
	wx := weather.NewClient(cfg.Latitude, cfg.Longitude)

	model, err := hub.NewModel(db, library, hubClient, wx)
	if err != nil {
		log.Fatalf("Failed to initialize display: %v", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Display exited with error: %v", err)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".smarthub", "config.toml")
}
