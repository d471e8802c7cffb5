// Package gallery merges the on-device image store and the hub server
// collection into one logical screensaver library.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hubward/smarthub/api/client"
	"github.com/hubward/smarthub/store"
)

type Origin string

const (
	OriginLocal  Origin = "local"
	OriginServer Origin = "server"
)

// Ref identifies an image record by its owning store. Ids are unique only
// within one origin, so a bare id is never enough to route a delete.
type Ref struct {
	Origin   Origin
	LocalID  int64
	RemoteID string
}

func LocalRef(id int64) Ref {
	return Ref{Origin: OriginLocal, LocalID: id}
}

func ServerRef(id string) Ref {
	return Ref{Origin: OriginServer, RemoteID: id}
}

func (r Ref) String() string {
	if r.Origin == OriginLocal {
		return fmt.Sprintf("local/%d", r.LocalID)
	}
	return fmt.Sprintf("server/%s", r.RemoteID)
}

// Record is the collection-agnostic view of an image. For server records URL
// is a stable path on the hub; for local records Data holds the payload,
// rematerialized on every read.
type Record struct {
	Ref        Ref
	Name       string
	URL        string
	Data       []byte
	MIME       string
	UploadedAt time.Time
}

type Library struct {
	db  *store.Database
	hub *client.HubClient
}

func New(db *store.Database, hub *client.HubClient) *Library {
	return &Library{
		db:  db,
		hub: hub,
	}
}

// GetAll returns the union of the server collection and the local store,
// server records first. A failure reaching the server is logged and
// downgraded to a local-only result; it never propagates to the caller.
func (l *Library) GetAll(ctx context.Context) ([]Record, error) {
	var records []Record

	remote, err := l.hub.ListImages(ctx)
	if err != nil {
		slog.Warn("hub server not reachable, using local images only", "error", err)
	} else {
		for _, img := range remote {
			uploadedAt, err := time.Parse(time.RFC3339, img.UploadedAt)
			if err != nil {
				slog.Debug("unparseable upload time on server record", "id", img.ID, "value", img.UploadedAt)
			}
			records = append(records, Record{
				Ref:        ServerRef(img.ID),
				Name:       img.Name,
				URL:        img.URL,
				UploadedAt: uploadedAt,
			})
		}
	}

	local, err := l.db.ListImages()
	if err != nil {
		return nil, fmt.Errorf("failed to list local images: %w", err)
	}
	for _, img := range local {
		records = append(records, Record{
			Ref:        LocalRef(img.ID),
			Name:       img.Name,
			Data:       img.Data,
			MIME:       img.MIME,
			UploadedAt: img.UploadedAt,
		})
	}

	return records, nil
}

// Add stores an image on the device only. Photos destined for the shared
// collection go through the server upload page instead.
func (l *Library) Add(name, mime string, data []byte) (Ref, error) {
	id, err := l.db.AddImage(name, mime, data)
	if err != nil {
		return Ref{}, fmt.Errorf("failed to add local image: %w", err)
	}
	return LocalRef(id), nil
}

// DeleteOne routes the delete to the store that owns the record.
func (l *Library) DeleteOne(ctx context.Context, ref Ref) error {
	switch ref.Origin {
	case OriginLocal:
		return l.db.DeleteImage(ref.LocalID)
	case OriginServer:
		return l.hub.DeleteImage(ctx, ref.RemoteID)
	default:
		return fmt.Errorf("unknown image origin: %q", ref.Origin)
	}
}

// DeleteAll clears a single origin's collection.
func (l *Library) DeleteAll(ctx context.Context, origin Origin) error {
	switch origin {
	case OriginLocal:
		count, err := l.db.DeleteAllImages()
		if err != nil {
			return err
		}
		slog.Info("cleared local images", "count", count)
		return nil
	case OriginServer:
		return l.hub.DeleteAllImages(ctx)
	default:
		return fmt.Errorf("unknown image origin: %q", origin)
	}
}

// Payload returns the image bytes for a record, downloading server records
// on demand.
func (l *Library) Payload(ctx context.Context, rec Record) ([]byte, error) {
	if rec.Ref.Origin == OriginLocal {
		return rec.Data, nil
	}
	data, err := l.hub.Download(ctx, rec.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", rec.Ref, err)
	}
	return data, nil
}
