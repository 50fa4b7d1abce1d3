package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "test-agent",
	}
}

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":"1"}]}`))
	}))
	defer srv.Close()

	var resp struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := NewClient().GetJSON(context.Background(), srv.URL, &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "1" {
		t.Errorf("decoded %+v", resp)
	}
}

func TestGetJSON_NonOKFailsImmediately(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var v struct{}
	err := NewClient().GetJSON(context.Background(), srv.URL, &v)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server called %d times, want 1 (non-2xx is not retried)", n)
	}
}

func TestGetJSON_MalformedJSONFailsImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var v struct{}
	err := NewClient().GetJSON(context.Background(), srv.URL, &v)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestGetJSON_TimeoutRetriesThenFails(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff sleeps")
	}

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(250 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(50 * time.Millisecond)

	var v struct{}
	err := client.GetJSON(context.Background(), srv.URL, &v)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if n := atomic.LoadInt32(&calls); n != maxAttempts {
		t.Errorf("server called %d times, want %d", n, maxAttempts)
	}
}

func TestDownloadFile(t *testing.T) {
	payload := []byte("not really audio but enough bytes to stream")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "song.m4a")

	var lastWritten int64
	written, err := NewClient().DownloadFile(context.Background(), srv.URL, dest, func(w, total int64) {
		lastWritten = w
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != int64(len(payload)) {
		t.Errorf("written = %d, want %d", written, len(payload))
	}
	if lastWritten != int64(len(payload)) {
		t.Errorf("progress reported %d, want %d", lastWritten, len(payload))
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(payload) {
		t.Error("destination content differs from payload")
	}
}

func TestDownloadFile_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient().DownloadFile(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x"), nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}
