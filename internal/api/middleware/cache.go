package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

type cacheEntry struct {
	body        []byte
	contentType string
	expires     time.Time
}

// Cache returns middleware that serves repeated GETs of the same URL from
// memory for ttl. Only 200 responses are cached; anything else passes
// through untouched. The recordings list is the heaviest read of the API
// and tolerates slightly stale data.
func Cache(ttl time.Duration) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		entries = make(map[string]*cacheEntry)
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			mu.Lock()
			entry := entries[key]
			mu.Unlock()

			if entry != nil && time.Now().Before(entry.expires) {
				w.Header().Set("Content-Type", entry.contentType)
				w.Header().Set("X-Cache", "HIT")
				_, _ = w.Write(entry.body)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				mu.Lock()
				entries[key] = &cacheEntry{
					body:        rec.buf.Bytes(),
					contentType: rec.Header().Get("Content-Type"),
					expires:     time.Now().Add(ttl),
				}
				mu.Unlock()
			}
		})
	}
}

// recordingWriter tees the response body so it can be cached.
type recordingWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}
