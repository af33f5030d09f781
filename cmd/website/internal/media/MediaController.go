package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/getoptions"
)

type MediaHandlers interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type MediaStore interface {
	Get(ctx context.Context, key string) (Object, error)
}

type S3MediaStore struct {
	bucket string
	client s3.S3Client
}

func NewS3MediaStore(client s3.S3Client, bucket string) S3MediaStore {
	return S3MediaStore{
		bucket: bucket,
		client: client,
	}
}

func (s S3MediaStore) Get(ctx context.Context, key string) (Object, error) {
	object, err := s.client.Get(
		s.bucket,
		key,
		getoptions.WithContext(ctx),
		getoptions.WithTimeout(time.Minute*5),
	)

	if err != nil {
		return Object{}, err
	}

	return Object{
		Body:        object.Body,
		ContentType: object.ContentType,
		Size:        object.Size,
	}, nil
}

type MediaControllerConfig struct {
	Folder string
	Store  MediaStore
}

/*
MediaController serves sounds and clips from the bucket so the match page can
reference them with same-origin URLs.
*/
type MediaController struct {
	folder string
	store  MediaStore
}

func NewMediaController(config MediaControllerConfig) MediaController {
	return MediaController{
		folder: config.Folder,
		store:  config.Store,
	}
}

/*
GET /media/{key...}
*/
func (c MediaController) Stream(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		object Object
	)

	name := path.Clean("/" + httphelpers.GetFromRequest[string](r, "key"))
	if name == "/" || strings.Contains(name, "..") {
		httphelpers.WriteText(w, http.StatusNotFound, "Not found")
		return
	}

	key := strings.TrimPrefix(path.Join(c.folder, name), "/")

	if object, err = c.store.Get(r.Context(), key); err != nil {
		slog.Error("error getting media object from S3", "error", err, "key", key)
		httphelpers.WriteText(w, http.StatusNotFound, "Not found")
		return
	}

	defer object.Body.Close()

	contentType := object.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(key))
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if object.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))
	}

	_, _ = io.Copy(w, object.Body)
}
