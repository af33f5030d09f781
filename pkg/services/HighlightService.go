package services

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
)

/*
FallbackHighlights are used when the bucket holds no highlight clips.
*/
var FallbackHighlights = []string{
	"https://media.giphy.com/media/3o6ZtaO9BZHcOjmErm/giphy.gif",
	"https://media.giphy.com/media/l0MYt5jPR6QX5pnqM/giphy.gif",
	"https://media.giphy.com/media/26FPJWvYk8Z1nNvNK/giphy.gif",
}

var HighlightExtensions = []string{".gif", ".webp", ".jpg", ".jpeg", ".png"}

type Highlight struct {
	Ref          string
	ThumbnailURL string
	FullURL      string
}

type HighlightServicer interface {
	Refs() []string
	Resolve(ref string) (Highlight, error)
}

/*
HighlightObjectStore is the slice of object storage the highlight service
needs.
*/
type HighlightObjectStore interface {
	List(prefix string) ([]s3.Object, error)
	URL(key string) (string, error)
}

type S3HighlightStore struct {
	bucket string
	client s3.S3Client
}

func NewS3HighlightStore(client s3.S3Client, bucket string) S3HighlightStore {
	return S3HighlightStore{
		bucket: bucket,
		client: client,
	}
}

func (s S3HighlightStore) List(prefix string) ([]s3.Object, error) {
	response, err := s.client.List(s.bucket, prefix, listoptions.WithGetAll())

	if err != nil {
		return nil, err
	}

	return response.Objects, nil
}

func (s S3HighlightStore) URL(key string) (string, error) {
	return s.client.GetUrl(s.bucket, key)
}

type HighlightServiceConfig struct {
	Folder string
	Store  HighlightObjectStore
}

type HighlightService struct {
	folder string
	store  HighlightObjectStore
}

func NewHighlightService(config HighlightServiceConfig) HighlightService {
	return HighlightService{
		folder: config.Folder,
		store:  config.Store,
	}
}

/*
Refs lists the highlight clips available for new scorers. Without a store,
or when the store is empty or failing, the fallback clips are returned.
*/
func (s HighlightService) Refs() []string {
	if s.store == nil {
		return FallbackHighlights
	}

	objects, err := s.store.List(HighlightOriginalsPrefix(s.folder))

	if err != nil {
		slog.Error("error listing highlight clips, using fallbacks", "folder", s.folder, "error", err)
		return FallbackHighlights
	}

	keys := slices.Map(objects, func(input s3.Object, index int) string {
		return input.Key
	})

	result := []string{}

	for _, key := range keys {
		if IsHighlightFile(key) {
			result = append(result, key)
		}
	}

	if len(result) == 0 {
		return FallbackHighlights
	}

	return result
}

/*
Resolve turns a stored highlight reference into page URLs. External URLs are
used as-is for both the thumbnail and the full clip.
*/
func (s HighlightService) Resolve(ref string) (Highlight, error) {
	var (
		err    error
		result = Highlight{Ref: ref}
	)

	if ref == "" {
		return result, fmt.Errorf("empty highlight reference")
	}

	if IsExternalHighlight(ref) || s.store == nil {
		result.ThumbnailURL = ref
		result.FullURL = ref
		return result, nil
	}

	if result.FullURL, err = s.store.URL(ref); err != nil {
		return result, fmt.Errorf("error getting url for highlight %s: %w", ref, err)
	}

	if result.ThumbnailURL, err = s.store.URL(HighlightThumbnailKey(s.folder, ref)); err != nil {
		slog.Error("error getting thumbnail url, using full clip", "ref", ref, "error", err)
		result.ThumbnailURL = result.FullURL
	}

	return result, nil
}

func IsExternalHighlight(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "/")
}

func IsHighlightFile(key string) bool {
	return slices.IsInSlice(strings.ToLower(filepath.Ext(key)), HighlightExtensions)
}

func HighlightOriginalsPrefix(folder string) string {
	return path.Join(folder, "original")
}

// HighlightThumbnailKey is where the still thumbnail for an original clip lives.
func HighlightThumbnailKey(folder, originalKey string) string {
	base := path.Base(originalKey)
	name := strings.TrimSuffix(base, path.Ext(base))

	return path.Join(folder, "thumbnail", name+".jpg")
}
