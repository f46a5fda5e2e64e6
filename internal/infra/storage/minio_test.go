package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeS3 accepts bucket probes and object PUTs, recording uploaded bodies.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	switch {
	case len(parts) == 1 || parts[1] == "":
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.buckets[bucket] = true
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestPutJSON(t *testing.T) {
	fake := &fakeS3{buckets: map[string]bool{}, objects: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	endpoint := strings.TrimPrefix(srv.URL, "http://")

	ctx := context.Background()
	store, err := New(ctx, endpoint, "us-east-1", "secscan", "access", "secret", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !fake.buckets["secscan"] {
		t.Fatalf("bucket was not created")
	}

	url, err := store.PutJSON(ctx, "scans/2024/01/02/abc.json", []byte(`{"status":"success"}`))
	if err != nil {
		t.Fatalf("PutJSON: %v", err)
	}
	if want := srv.URL + "/secscan/scans/2024/01/02/abc.json"; url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
	if got, ok := fake.objects["/secscan/scans/2024/01/02/abc.json"]; !ok || !strings.Contains(got, `"status":"success"`) {
		t.Fatalf("stored object = %q", got)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
