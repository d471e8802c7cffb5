// smarthubd is the shared household server: photo upload API, uploads
// serving, and the optional S3 album mirror.
package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hubward/smarthub/album"
	"github.com/hubward/smarthub/api"
)

func main() {
	rootPath := os.Getenv("HUB_ROOT_PATH")
	if rootPath == "" {
		log.Fatal("HUB_ROOT_PATH environment variable is required")
	}

	addr := os.Getenv("HUB_LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:3000"
	}

	uploadsDir := filepath.Join(rootPath, "uploads")

	webServer, err := api.NewWebServer(uploadsDir)
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}

	// Album sync is optional; it only runs when the S3 settings are present.
	if os.Getenv("HUB_S3_BUCKET") != "" {
		syncer, err := album.NewSyncer(uploadsDir)
		if err != nil {
			log.Fatal(err)
		}
		go syncer.Run()
	} else {
		slog.Info("no HUB_S3_BUCKET configured, album sync disabled")
	}

	webServer.Start(addr)
}
