package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeStore map[string]string

func (s fakeStore) Get(ctx context.Context, key string) (Object, error) {
	body, ok := s[key]
	if !ok {
		return Object{}, errors.New("missing")
	}

	return Object{Body: io.NopCloser(strings.NewReader(body)), Size: int64(len(body))}, nil
}

func serve(c MediaController, target string) *httptest.ResponseRecorder {
	m := http.NewServeMux()
	m.HandleFunc("GET /media/{key...}", c.Stream)

	w := httptest.NewRecorder()
	m.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestStream(t *testing.T) {
	c := NewMediaController(MediaControllerConfig{
		Folder: "media",
		Store: fakeStore{
			"media/sounds/goal.mp3":  "GOAL",
			"media/clips/goal.gif":   "GIF89a",
			"media/clips/goal.zzq00": "RAW",
		},
	})

	tests := []struct {
		name         string
		target       string
		expectedCode int
		expectedBody string
		expectedType string
	}{
		{name: "existing object", target: "/media/sounds/goal.mp3", expectedCode: http.StatusOK, expectedBody: "GOAL"},
		{name: "missing object", target: "/media/sounds/crowd.mp3", expectedCode: http.StatusNotFound},
		{name: "type from extension", target: "/media/clips/goal.gif", expectedCode: http.StatusOK, expectedBody: "GIF89a", expectedType: "image/gif"},
		{name: "unknown type", target: "/media/clips/goal.zzq00", expectedCode: http.StatusOK, expectedBody: "RAW", expectedType: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(c, tt.target)

			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}

			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			}
		})
	}
}
