package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hubward/smarthub/api/client"
	"github.com/hubward/smarthub/api/models"
	"github.com/hubward/smarthub/store"
)

func newTestLibrary(t *testing.T, handler http.Handler) (*Library, *store.Database) {
	t.Helper()

	db, err := store.NewDatabase(filepath.Join(t.TempDir(), "images.db"))
	if err != nil {
		t.Fatalf("new database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	hub := client.NewHubClientWith(srv.URL, srv.Client())
	return New(db, hub), db
}

// newOfflineLibrary points the hub client at a closed server.
func newOfflineLibrary(t *testing.T) (*Library, *store.Database) {
	t.Helper()

	db, err := store.NewDatabase(filepath.Join(t.TempDir(), "images.db"))
	if err != nil {
		t.Fatalf("new database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(http.NotFoundHandler())
	hub := client.NewHubClientWith(srv.URL, srv.Client())
	srv.Close()

	return New(db, hub), db
}

func serveImages(images []models.ImageResponse) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/images" {
			json.NewEncoder(w).Encode(images)
			return
		}
		http.NotFound(w, r)
	})
}

func TestGetAllMergesServerFirst(t *testing.T) {
	lib, db := newTestLibrary(t, serveImages([]models.ImageResponse{
		{ID: "remote.jpg", Name: "remote.jpg", URL: "/uploads/remote.jpg", UploadedAt: "2026-08-30T10:00:00Z"},
	}))

	if _, err := db.AddImage("device.png", "image/png", []byte{1, 2, 3}); err != nil {
		t.Fatalf("add local image: %v", err)
	}

	records, err := lib.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Ref.Origin != OriginServer || records[0].Name != "remote.jpg" {
		t.Fatalf("expected server record first, got %+v", records[0])
	}
	if records[1].Ref.Origin != OriginLocal || records[1].Name != "device.png" {
		t.Fatalf("expected local record second, got %+v", records[1])
	}
	if string(records[1].Data) != string([]byte{1, 2, 3}) {
		t.Fatal("local payload should be loaded eagerly")
	}
}

func TestGetAllToleratesBadUploadTime(t *testing.T) {
	lib, _ := newTestLibrary(t, serveImages([]models.ImageResponse{
		{ID: "a.jpg", Name: "a.jpg", URL: "/uploads/a.jpg", UploadedAt: "yesterday-ish"},
	}))

	records, err := lib.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected the record to survive, got %d records", len(records))
	}
	if !records[0].UploadedAt.IsZero() {
		t.Fatalf("unparseable time should leave the zero value, got %v", records[0].UploadedAt)
	}
}

func TestGetAllSurvivesUnreachableServer(t *testing.T) {
	lib, db := newOfflineLibrary(t)

	if _, err := db.AddImage("device.png", "image/png", []byte{9}); err != nil {
		t.Fatalf("add local image: %v", err)
	}

	records, err := lib.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all must not fail when the server is down: %v", err)
	}
	if len(records) != 1 || records[0].Ref.Origin != OriginLocal {
		t.Fatalf("expected local-only records, got %+v", records)
	}
}

func TestAddIsLocalOnly(t *testing.T) {
	var sawUpload bool
	lib, db := newTestLibrary(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/upload" {
			sawUpload = true
		}
		json.NewEncoder(w).Encode([]models.ImageResponse{})
	}))

	ref, err := lib.Add("pet.jpg", "image/jpeg", []byte{4, 5})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if ref.Origin != OriginLocal {
		t.Fatalf("expected a local ref, got %+v", ref)
	}
	if sawUpload {
		t.Fatal("add must never touch the server")
	}

	local, err := db.ListImages()
	if err != nil {
		t.Fatalf("list local: %v", err)
	}
	if len(local) != 1 || local[0].Name != "pet.jpg" {
		t.Fatalf("unexpected local store contents: %+v", local)
	}
}

func TestDeleteOneRoutesByOrigin(t *testing.T) {
	var deletedRemote string
	lib, db := newTestLibrary(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletedRemote = r.URL.Path
			json.NewEncoder(w).Encode(models.DeleteResponse{Success: true})
			return
		}
		json.NewEncoder(w).Encode([]models.ImageResponse{})
	}))

	id, err := db.AddImage("device.png", "image/png", []byte{1})
	if err != nil {
		t.Fatalf("add local image: %v", err)
	}

	if err := lib.DeleteOne(context.Background(), LocalRef(id)); err != nil {
		t.Fatalf("delete local: %v", err)
	}
	if deletedRemote != "" {
		t.Fatal("local delete must not reach the server")
	}
	if _, err := db.ListImages(); err != nil {
		t.Fatalf("list local: %v", err)
	}

	if err := lib.DeleteOne(context.Background(), ServerRef("remote.jpg")); err != nil {
		t.Fatalf("delete server: %v", err)
	}
	if deletedRemote != "/api/images/remote.jpg" {
		t.Fatalf("unexpected delete path: %s", deletedRemote)
	}
}

func TestDeleteOneLocalNotFound(t *testing.T) {
	lib, _ := newTestLibrary(t, serveImages(nil))

	err := lib.DeleteOne(context.Background(), LocalRef(999))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAllLocalOrigin(t *testing.T) {
	var sawRemoteDelete bool
	lib, db := newTestLibrary(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			sawRemoteDelete = true
		}
		json.NewEncoder(w).Encode([]models.ImageResponse{})
	}))

	for i := 0; i < 3; i++ {
		if _, err := db.AddImage("x.jpg", "image/jpeg", []byte{1}); err != nil {
			t.Fatalf("add local image: %v", err)
		}
	}

	if err := lib.DeleteAll(context.Background(), OriginLocal); err != nil {
		t.Fatalf("delete all local: %v", err)
	}
	if sawRemoteDelete {
		t.Fatal("local clear must not reach the server")
	}

	local, err := db.ListImages()
	if err != nil {
		t.Fatalf("list local: %v", err)
	}
	if len(local) != 0 {
		t.Fatalf("expected an empty local store, got %d records", len(local))
	}
}

func TestPayloadDownloadsServerRecords(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xaa}
	lib, _ := newTestLibrary(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/uploads/remote.jpg" {
			w.Write(payload)
			return
		}
		json.NewEncoder(w).Encode([]models.ImageResponse{})
	}))

	rec := Record{Ref: ServerRef("remote.jpg"), URL: "/uploads/remote.jpg"}
	data, err := lib.Payload(context.Background(), rec)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatal("downloaded payload does not match")
	}

	localRec := Record{Ref: LocalRef(1), Data: []byte{7}}
	data, err = lib.Payload(context.Background(), localRec)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(data) != 1 || data[0] != 7 {
		t.Fatal("local payload should come straight from the record")
	}
}

func TestRefString(t *testing.T) {
	if s := LocalRef(7).String(); s != "local/7" {
		t.Fatalf("unexpected local ref string: %s", s)
	}
	if s := ServerRef("a.jpg").String(); s != "server/a.jpg" {
		t.Fatalf("unexpected server ref string: %s", s)
	}
}
