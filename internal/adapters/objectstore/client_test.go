package objectstore_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tourism_booking/internal/adapters/objectstore"
)

func TestClient_Upload_RetriesThenSuccess(t *testing.T) {
	var hits int32
	var gotBody, gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(503)
		default:
			b, _ := io.ReadAll(r.Body)
			gotBody, gotAuth, gotPath = string(b), r.Header.Get("Authorization"), r.URL.Path
			w.WriteHeader(200)
		}
	}))
	defer ts.Close()

	cl, err := objectstore.New(ts.URL, "", "service-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := cl.Upload(ctx, "listings", "villas/a.jpg", "image/jpeg", strings.NewReader("jpegdata"), 8); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected a retry, got %d calls", hits)
	}
	if gotBody != "jpegdata" || gotAuth != "Bearer service-key" || gotPath != "/storage/v1/object/listings/villas/a.jpg" {
		t.Fatalf("unexpected request: body=%q auth=%q path=%q", gotBody, gotAuth, gotPath)
	}
}

func TestClient_Delete_SendsPrefixes(t *testing.T) {
	var prefixes []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/storage/v1/object/listings" {
			w.WriteHeader(400)
			return
		}
		var body struct {
			Prefixes []string `json:"prefixes"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		prefixes = body.Prefixes
		w.WriteHeader(200)
	}))
	defer ts.Close()

	cl, _ := objectstore.New(ts.URL, "", "k", 100)
	if err := cl.Delete(context.Background(), "listings", "a.jpg", "b.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(prefixes) != 2 || prefixes[0] != "a.jpg" {
		t.Fatalf("unexpected prefixes: %v", prefixes)
	}
}

func TestClient_NotFoundAndPublicURL(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := objectstore.New(ts.URL, "", "k", 100)
	if err := cl.Delete(context.Background(), "listings", "x.jpg"); err != objectstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	want := ts.URL + "/storage/v1/object/public/listings/cars/bmw%20x5.jpg"
	if got := cl.PublicURL("listings", "cars/bmw x5.jpg"); got != want {
		t.Fatalf("PublicURL = %s, want %s", got, want)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := objectstore.New("http://x", "", "", 1); err == nil {
		t.Fatal("expected error for empty key")
	}
}
