// Package album mirrors a shared S3 photo album into the server uploads
// directory so family members can feed the screensaver without the upload page.
package album

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/hubward/smarthub/util"
)

const syncInterval = time.Hour

type Syncer struct {
	client *s3.Client

	profile string
	bucket  string

	uploadsDir string
}

// NewSyncer reads its settings from HUB_AWS_PROFILE and HUB_S3_BUCKET.
// Both are required; callers treat a missing value as "album sync disabled".
func NewSyncer(uploadsDir string) (*Syncer, error) {
	awsProfileName := os.Getenv("HUB_AWS_PROFILE")
	if awsProfileName == "" {
		return nil, errors.New("no aws profile provided in environment variable HUB_AWS_PROFILE")
	}
	bucket := os.Getenv("HUB_S3_BUCKET")
	if bucket == "" {
		return nil, errors.New("no s3 bucket provided in environment variable HUB_S3_BUCKET")
	}

	// Load the Shared AWS Configuration (~/.aws/config)
	ctxCfg, cancelCfg := context.WithTimeout(context.Background(), 3*time.Second)
	cfg, err := config.LoadDefaultConfig(
		ctxCfg,
		config.WithSharedConfigProfile(awsProfileName),
	)
	cancelCfg()
	if err != nil {
		return nil, err
	}

	return &Syncer{
		client:     s3.NewFromConfig(cfg),
		profile:    awsProfileName,
		bucket:     bucket,
		uploadsDir: uploadsDir,
	}, nil
}

func (s *Syncer) getObjects(ctx context.Context) ([]s3types.Object, error) {
	output, err := s.client.ListObjectsV2(
		ctx,
		&s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
		},
	)
	if err != nil {
		return nil, err
	}

	return output.Contents, nil
}

func (s *Syncer) downloadObject(ctx context.Context, name string) error {
	downloader := manager.NewDownloader(s.client)

	f, err := os.Create(filepath.Join(s.uploadsDir, name))
	if err != nil {
		return fmt.Errorf("unable to create file for s3 download, %s, %w", name, err)
	}
	defer f.Close()

	if _, err := downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	}); err != nil {
		return fmt.Errorf("unable to download object from s3, %s, %w", name, err)
	}
	return nil
}

func (s *Syncer) getLocalFiles() (mapset.Set[string], error) {
	entries, err := os.ReadDir(s.uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("unable to read directory, %s, %w", s.uploadsDir, err)
	}

	localFiles := mapset.NewSet[string]()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !util.IsImageFile(name) {
			continue
		}
		localFiles.Add(name)
	}

	return localFiles, nil
}

func (s *Syncer) getRemoteFiles(ctx context.Context) (mapset.Set[string], error) {
	remoteFiles := mapset.NewSet[string]()
	objects, err := s.getObjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, object := range objects {
		name := aws.ToString(object.Key)
		if !util.IsImageFile(name) {
			continue
		}
		remoteFiles.Add(name)
	}

	return remoteFiles, nil
}

// SyncFolder downloads album objects missing locally. It never deletes:
// the uploads directory also holds files from the web upload page, and those
// must not be clobbered by bucket churn.
func (s *Syncer) SyncFolder(ctx context.Context) error {
	localFiles, err := s.getLocalFiles()
	if err != nil {
		return err
	}

	remoteFiles, err := s.getRemoteFiles(ctx)
	if err != nil {
		return err
	}

	toDownload := remoteFiles.Difference(localFiles).ToSlice()
	if len(toDownload) == 0 {
		return nil
	}

	slog.Info("mirroring album objects", "count", len(toDownload), "names", toDownload)
	for _, name := range toDownload {
		if err := s.downloadObject(ctx, name); err != nil {
			slog.Warn("error while downloading s3 object", "name", name, "error", err)
		}
	}

	return nil
}

func (s *Syncer) Run() {
	ticker := time.NewTicker(syncInterval)

	// Initial sync
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	if err := s.SyncFolder(ctx); err != nil {
		slog.Warn("error while syncing with album bucket", "error", err)
	}
	cancel()

	for range ticker.C {
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Minute)
		if err := s.SyncFolder(ctx); err != nil {
			slog.Warn("error while syncing with album bucket", "error", err)
		}
		cancel()
	}
}
