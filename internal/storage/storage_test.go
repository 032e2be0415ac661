package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(Config{Type: "local", BasePath: dir, BaseURL: "/uploads/"})
	require.NoError(t, err)
	assert.Equal(t, "local", s.Name())

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "user-1/photo.png", strings.NewReader("png-bytes"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "user-1", "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	url, err := s.GetURL(ctx, "user-1/photo.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/user-1/photo.png", url)

	require.NoError(t, s.Delete(ctx, "user-1/photo.png"))
	_, err = os.Stat(filepath.Join(dir, "user-1", "photo.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, "user-1/photo.png"), "deleting a missing key is not an error")
}

func TestLocalStorage_KeysStayInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain"))

	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)
}

type bunnyRecorder struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
	keys     []string
}

func (b *bunnyRecorder) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		body, _ := io.ReadAll(r.Body)
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.bodies[r.URL.Path] = string(body)
		b.keys = append(b.keys, r.Header.Get("AccessKey"))
		w.WriteHeader(status)
	}
}

func TestBunnyStorage_Save(t *testing.T) {
	rec := &bunnyRecorder{bodies: map[string]string{}}
	srv := httptest.NewServer(rec.handler(http.StatusCreated))
	defer srv.Close()

	s, err := NewStorage(Config{
		Type:      "bunny",
		BunnyZone: "outbound",
		BunnyKey:  "zone-secret",
		BunnyHost: srv.URL,
		BaseURL:   "https://cdn.example.com",
	})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "u1/clip.mp4", strings.NewReader("video"), "video/mp4"))

	assert.Equal(t, []string{"PUT /outbound/u1/clip.mp4"}, rec.requests)
	assert.Equal(t, "video", rec.bodies["/outbound/u1/clip.mp4"])
	assert.Equal(t, []string{"zone-secret"}, rec.keys)

	url, err := s.GetURL(context.Background(), "u1/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1/clip.mp4", url)
}

func TestBunnyStorage_SaveRejectedStatus(t *testing.T) {
	rec := &bunnyRecorder{bodies: map[string]string{}}
	srv := httptest.NewServer(rec.handler(http.StatusUnauthorized))
	defer srv.Close()

	s, err := NewBunnyStorage(Config{BunnyZone: "z", BunnyKey: "k", BunnyHost: srv.URL, BaseURL: "https://cdn"})
	require.NoError(t, err)

	err = s.Save(context.Background(), "a.png", strings.NewReader("x"), "image/png")
	assert.ErrorContains(t, err, "401")
}

func TestBunnyStorage_DeleteMissingIsNotAnError(t *testing.T) {
	rec := &bunnyRecorder{bodies: map[string]string{}}
	srv := httptest.NewServer(rec.handler(http.StatusNotFound))
	defer srv.Close()

	s, err := NewBunnyStorage(Config{BunnyZone: "z", BunnyKey: "k", BunnyHost: srv.URL, BaseURL: "https://cdn"})
	require.NoError(t, err)

	assert.NoError(t, s.Delete(context.Background(), "gone.png"))
	assert.Equal(t, []string{"DELETE /z/gone.png"}, rec.requests)
}

func TestNewStorage_Validation(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)

	_, err = NewStorage(Config{Type: "bunny", BunnyZone: "z"})
	assert.Error(t, err)
}
