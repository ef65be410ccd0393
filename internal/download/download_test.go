package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchWritesFileAndReportsProgress(t *testing.T) {
	payload := strings.Repeat("x", 20*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "sdk.zip")
	var calls int
	var last, total int64
	err := NewClient().Fetch(context.Background(), srv.URL, dest, func(w, t int64) {
		calls++
		last, total = w, t
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if len(data) != len(payload) {
		t.Fatalf("wrote %d bytes, want %d", len(data), len(payload))
	}
	if calls == 0 {
		t.Fatal("expected progress callbacks")
	}
	if last != int64(len(payload)) || total != int64(len(payload)) {
		t.Fatalf("final progress %d/%d, want %d/%d", last, total, len(payload), len(payload))
	}
}

func TestFetchNoContentLengthOmitsProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte("data"))
		flusher.Flush()
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.bin")
	calls := 0
	if err := NewClient().Fetch(context.Background(), srv.URL, dest, func(int64, int64) { calls++ }); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no progress callbacks without content length, got %d", calls)
	}
}

func TestFetchNon2xxLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.bin")
	if err := NewClient().Fetch(context.Background(), srv.URL, dest, nil); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("destination should not exist after failure (stat err %v)", err)
	}
}

func TestFetchInterruptedMidStreamDeletesPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		w.Write([]byte(strings.Repeat("y", 10*1024)))
		// Abort the connection before the promised length is sent.
		conn, _, _ := w.(http.Hijacker).Hijack()
		conn.Close()
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.bin")
	if err := NewClient().Fetch(context.Background(), srv.URL, dest, nil); err == nil {
		t.Fatal("expected error for truncated body")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("partial file must be deleted (stat err %v)", err)
	}
}

func TestFetchOverwritesExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.bin")
	if err := os.WriteFile(dest, []byte("stale-and-longer"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewClient().Fetch(context.Background(), srv.URL, dest, nil); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "fresh" {
		t.Fatalf("dest = %q, want fresh", data)
	}
}
