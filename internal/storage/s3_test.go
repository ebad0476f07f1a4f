package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/domain"
)

type fakeS3 struct {
	mu       sync.Mutex
	exists   bool
	requests []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	if r.Method == http.MethodHead && r.URL.Path == "/portfolio/cv/resume.pdf" {
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", "2048")
		w.Header().Set("ETag", `"abc"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jun 2025 10:00:00 GMT")
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

func newTestStore(t *testing.T, backend *fakeS3) *ResumeStore {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store, err := NewResumeStore(context.Background(), ResumeStoreConfig{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		Bucket:          "portfolio",
		ObjectKey:       "cv/resume.pdf",
		UsePathStyle:    true,
		DownloadTTL:     5 * time.Minute,
	})
	require.NoError(t, err)
	return store
}

func TestNewResumeStore_RequiresBucket(t *testing.T) {
	_, err := NewResumeStore(context.Background(), ResumeStoreConfig{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestNewResumeStore_Defaults(t *testing.T) {
	store, err := NewResumeStore(context.Background(), ResumeStoreConfig{
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		Bucket:          "portfolio",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultResumeKey, store.Key())
	assert.Equal(t, DefaultDownloadTTL, store.downloadTTL)
}

func TestResumeStore_DownloadURL(t *testing.T) {
	backend := &fakeS3{exists: true}
	store := newTestStore(t, backend)

	raw, err := store.DownloadURL(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/portfolio/cv/resume.pdf", u.Path)

	q := u.Query()
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.Equal(t, "300", q.Get("X-Amz-Expires"))
	assert.Equal(t, "application/pdf", q.Get("response-content-type"))
}

func TestResumeStore_DownloadURL_Missing(t *testing.T) {
	store := newTestStore(t, &fakeS3{})

	_, err := store.DownloadURL(context.Background())
	assert.ErrorIs(t, err, domain.ErrResumeUnavailable)
}

func TestResumeStore_Head(t *testing.T) {
	store := newTestStore(t, &fakeS3{exists: true})

	meta, err := store.Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2048), meta.ContentLength)
	assert.Equal(t, "application/pdf", meta.ContentType)
	assert.Equal(t, `"abc"`, meta.ETag)
	assert.Equal(t, 2025, meta.LastModified.Year())
}
