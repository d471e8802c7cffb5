// Package api is the main api web server
package api

import (
	"embed"
	"fmt"
	"log"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hubward/smarthub/api/models"
	"github.com/hubward/smarthub/util"
)

//go:embed web/*
var webFiles embed.FS

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 50 << 20

type WebServer struct {
	router     *gin.Engine
	uploadsDir string
}

func NewWebServer(uploadsDir string) (*WebServer, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	abs, err := filepath.Abs(uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uploads directory: %w", err)
	}

	router := gin.Default()
	router.MaxMultipartMemory = MaxUploadBytes

	ws := &WebServer{
		router:     router,
		uploadsDir: abs,
	}

	ws.setupRoutes()

	return ws, nil
}

func (ws *WebServer) setupRoutes() {
	ws.router.GET("/api/device-ip", ws.handleDeviceIP)
	ws.router.POST("/api/upload", ws.handleUpload)
	ws.router.GET("/api/images", ws.handleListImages)
	ws.router.DELETE("/api/images/:id", ws.handleDeleteImage)
	ws.router.DELETE("/api/images", ws.handleDeleteAllImages)

	// Uploaded images served straight from disk
	ws.router.Static("/uploads", ws.uploadsDir)

	ws.router.GET("/", func(c *gin.Context) {
		ws.serveEmbedded(c, "web/index.html")
	})
	ws.router.GET("/upload.html", func(c *gin.Context) {
		ws.serveEmbedded(c, "web/upload.html")
	})

	// Catch-all so client-side routes land on the entry document
	ws.router.NoRoute(func(c *gin.Context) {
		ws.serveEmbedded(c, "web/index.html")
	})
}

func (ws *WebServer) serveEmbedded(c *gin.Context, path string) {
	data, err := webFiles.ReadFile(path)
	if err != nil {
		slog.Error("failed to read embedded page", "path", path, "error", err)
		c.String(http.StatusInternalServerError, "Failed to load page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

func (ws *WebServer) Start(addr string) {
	log.Printf("Starting web server on %s", addr)
	if err := ws.router.Run(addr); err != nil {
		log.Fatalf("Failed to start web server: %v", err)
	}
}

// Handler exposes the router for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

func (ws *WebServer) handleDeviceIP(c *gin.Context) {
	c.JSON(http.StatusOK, models.DeviceIPResponse{IP: deviceIP()})
}

// deviceIP returns a best-guess LAN IPv4 address. Always produces a value,
// falling back to localhost.
func deviceIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipNet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return ip.String()
			}
		}
	}
	return "localhost"
}

// isImageUpload gates on the declared MIME type alone; a filename extension
// is not trusted.
func isImageUpload(file *multipart.FileHeader) bool {
	return strings.HasPrefix(file.Header.Get("Content-Type"), "image/")
}

// storedFilename derives a collision-free name from the original: base name,
// upload timestamp in milliseconds, and a short random disambiguator so two
// uploads of the same name in the same millisecond still land apart.
func storedFilename(original string, now time.Time) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%d-%s%s", base, now.UnixMilli(), suffix, ext)
}

func (ws *WebServer) handleUpload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file uploaded"})
		return
	}

	if file.Size > MaxUploadBytes {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "File exceeds 50MB limit"})
		return
	}

	if !isImageUpload(file) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Only image files are allowed"})
		return
	}

	name := storedFilename(file.Filename, time.Now())
	dst := filepath.Join(ws.uploadsDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		slog.Error("failed to save uploaded file", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save file"})
		return
	}

	slog.Info("image uploaded", "name", name, "original", file.Filename, "bytes", file.Size)

	c.JSON(http.StatusCreated, models.UploadResponse{
		Success:      true,
		Message:      "Image uploaded successfully",
		Filename:     name,
		OriginalName: file.Filename,
	})
}

func (ws *WebServer) handleListImages(c *gin.Context) {
	entries, err := os.ReadDir(ws.uploadsDir)
	if err != nil {
		slog.Error("failed to read uploads directory", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read images"})
		return
	}

	images := make([]models.ImageResponse, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !util.IsImageFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, models.ImageResponse{
			ID:         entry.Name(),
			Name:       entry.Name(),
			URL:        "/uploads/" + entry.Name(),
			UploadedAt: info.ModTime().UTC().Format(time.RFC3339),
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })

	c.JSON(http.StatusOK, images)
}

// resolveUpload maps an image id to an absolute path and rejects any id that
// would resolve outside the uploads directory.
func (ws *WebServer) resolveUpload(id string) (string, bool) {
	path := filepath.Join(ws.uploadsDir, id)
	rel, err := filepath.Rel(ws.uploadsDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}

func (ws *WebServer) handleDeleteImage(c *gin.Context) {
	id := c.Param("id")

	path, ok := ws.resolveUpload(id)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		return
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Image not found"})
		return
	}

	if err := os.Remove(path); err != nil {
		slog.Error("failed to delete image", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete image"})
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse{Success: true, Message: "Image deleted"})
}

func (ws *WebServer) handleDeleteAllImages(c *gin.Context) {
	entries, err := os.ReadDir(ws.uploadsDir)
	if err != nil {
		slog.Error("failed to read uploads directory", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to clear images"})
		return
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !util.IsImageFile(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(ws.uploadsDir, entry.Name())); err != nil {
			slog.Warn("failed to remove image", "name", entry.Name(), "error", err)
			continue
		}
		deleted++
	}

	c.JSON(http.StatusOK, models.DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("Deleted %d images", deleted),
	})
}
