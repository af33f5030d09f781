package thumbnails

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/anleague/pkg/services"
	"github.com/alitto/pond/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

type ThumbnailCreator interface {
	CreateThumbnails()
}

/*
ThumbnailStore is the object storage used by the thumbnail job. Keys are
relative to a single bucket.
*/
type ThumbnailStore interface {
	EnsureBucket(region string) error
	Get(key string) (io.ReadCloser, error)
	LastModified(key string) (time.Time, bool, error)
	ListOriginals(prefix string) ([]s3.Object, error)
	Put(key string, body io.Reader) error
}

type S3ThumbnailStore struct {
	bucket string
	client s3.S3Client
}

func NewS3ThumbnailStore(client s3.S3Client, bucket string) S3ThumbnailStore {
	return S3ThumbnailStore{
		bucket: bucket,
		client: client,
	}
}

func (s S3ThumbnailStore) EnsureBucket(region string) error {
	var (
		err    error
		exists bool
	)

	if exists, err = s.client.BucketExists(s.bucket); err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", s.bucket)

	if err = s.client.CreateBucket(s.bucket, createbucketoptions.WithRegion(region)); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

func (s S3ThumbnailStore) Get(key string) (io.ReadCloser, error) {
	object, err := s.client.Get(s.bucket, key)
	if err != nil {
		return nil, err
	}

	return object.Body, nil
}

func (s S3ThumbnailStore) LastModified(key string) (time.Time, bool, error) {
	stat, err := s.client.StatObject(s.bucket, key)
	if err != nil {
		return time.Time{}, false, err
	}

	if stat == nil {
		return time.Time{}, false, nil
	}

	return stat.LastModified, true, nil
}

func (s S3ThumbnailStore) ListOriginals(prefix string) ([]s3.Object, error) {
	response, err := s.client.List(
		s.bucket,
		prefix,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			ext := strings.ToLower(filepath.Ext(aws.ToString(obj.Key)))
			return slices.IsInSlice(ext, services.HighlightExtensions)
		}),
	)

	if err != nil {
		return nil, err
	}

	return response.Objects, nil
}

func (s S3ThumbnailStore) Put(key string, body io.Reader) error {
	_, err := s.client.Put(s.bucket, key, body)
	return err
}

type ThumbnailCreatorConfig struct {
	AwsRegion        string
	HighlightsFolder string
	MaxSize          uint
	MaxWorkers       int
	ShutdownCtx      context.Context
	Store            ThumbnailStore
}

/*
ThumbnailCreatorService keeps a still JPEG next to every highlight clip in
the bucket. Animated clips are reduced to their first frame.
*/
type ThumbnailCreatorService struct {
	awsRegion        string
	highlightsFolder string
	maxSize          uint
	maxWorkers       int
	shutdownCtx      context.Context
	store            ThumbnailStore
}

func NewThumbnailCreatorService(config ThumbnailCreatorConfig) ThumbnailCreatorService {
	maxSize := config.MaxSize
	if maxSize == 0 {
		maxSize = 240
	}

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	ctx := config.ShutdownCtx
	if ctx == nil {
		ctx = context.Background()
	}

	return ThumbnailCreatorService{
		awsRegion:        config.AwsRegion,
		highlightsFolder: config.HighlightsFolder,
		maxSize:          maxSize,
		maxWorkers:       maxWorkers,
		shutdownCtx:      ctx,
		store:            config.Store,
	}
}

func (c ThumbnailCreatorService) CreateThumbnails() {
	var (
		err       error
		originals []s3.Object
	)

	slog.Info("starting highlight thumbnail creation...")

	if err = c.store.EnsureBucket(c.awsRegion); err != nil {
		slog.Error("error ensuring bucket exists. aborting", "error", err)
		return
	}

	originalsKey := services.HighlightOriginalsPrefix(c.highlightsFolder)

	if originals, err = c.store.ListOriginals(originalsKey); err != nil {
		slog.Error("error listing highlight clips", "path", originalsKey, "error", err)
		return
	}

	slog.Info("checking for updated highlight clips...", "numClips", len(originals), "path", originalsKey)

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	for _, original := range originals {
		thumbnailKey := services.HighlightThumbnailKey(c.highlightsFolder, original.Key)

		if c.isThumbnailCurrent(original, thumbnailKey) {
			continue
		}

		pool.Submit(func() {
			slog.Info("creating highlight thumbnail...", "key", original.Key)

			if err := c.createThumbnail(original.Key, thumbnailKey); err != nil {
				slog.Error("error creating highlight thumbnail", "key", original.Key, "thumbnailKey", thumbnailKey, "error", err)
			}
		})
	}

	_ = pool.Stop().Wait()
}

func (c ThumbnailCreatorService) isThumbnailCurrent(original s3.Object, thumbnailKey string) bool {
	modified, exists, err := c.store.LastModified(thumbnailKey)

	if err != nil {
		slog.Error("error retrieving metadata for thumbnail", "thumbnailKey", thumbnailKey, "error", err)
		return false
	}

	return exists && !modified.Before(original.LastModified)
}

func (c ThumbnailCreatorService) createThumbnail(originalKey, thumbnailKey string) error {
	var (
		err  error
		img  image.Image
		body io.ReadCloser
		buf  bytes.Buffer
	)

	if body, err = c.store.Get(originalKey); err != nil {
		return fmt.Errorf("error retrieving highlight %s: %w", originalKey, err)
	}

	defer body.Close()

	if img, _, err = image.Decode(body); err != nil {
		return fmt.Errorf("error decoding highlight %s: %w", originalKey, err)
	}

	if err = jpeg.Encode(&buf, Resize(img, c.maxSize), &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("error encoding thumbnail: %w", err)
	}

	if err = c.store.Put(thumbnailKey, &buf); err != nil {
		return fmt.Errorf("error uploading thumbnail to S3: %w", err)
	}

	slog.Info("updated highlight thumbnail", "thumbnailKey", thumbnailKey)
	return nil
}

// Resize scales img so its longest edge is maxSize.
func Resize(img image.Image, maxSize uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	var newWidth, newHeight uint

	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
