package blob

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// testStore points a Store at a stub S3 endpoint served over plain HTTP.
func testStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}
	// A fixed region keeps the client from probing the stub for the
	// bucket location before the first request.
	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("test", "test", ""),
		Secure: false,
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio.New() error = %v", err)
	}
	return &Store{client: client, bucket: "media", baseURL: "https://s3.example.com/media"}
}

func TestPutSetsPublicReadACL(t *testing.T) {
	var gotACL, gotContentType string
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			gotACL = r.Header.Get("X-Amz-Acl")
			gotContentType = r.Header.Get("Content-Type")
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	}))

	href, err := store.Put(context.Background(), "20190401/images/cover.jpg", "image/jpeg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if href != "https://s3.example.com/media/20190401/images/cover.jpg" {
		t.Errorf("href = %q, want public object URL", href)
	}
	if gotACL != "public-read" {
		t.Errorf("x-amz-acl = %q, want %q", gotACL, "public-read")
	}
	if gotContentType != "image/jpeg" {
		t.Errorf("content type = %q, want %q", gotContentType, "image/jpeg")
	}
}

func TestPutWrapsUploadError(t *testing.T) {
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))

	if _, err := store.Put(context.Background(), "k", "text/plain", []byte("x")); err == nil {
		t.Fatal("expected an upload error")
	}
}
