package navfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"nidhi/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Component: "navfeed-test"})
}

const sampleFeed = `{
	"meta": {"scheme_code": 120503, "scheme_name": "Axis Bluechip Fund"},
	"data": [
		{"date": "26-08-2025", "nav": "28.49"},
		{"date": "25-08-2025", "nav": "28.10"},
		{"date": "not-a-date", "nav": "28.00"},
		{"date": "22-08-2025", "nav": "garbage"}
	],
	"status": "SUCCESS"
}`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/120503" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	points, err := c.Fetch(context.Background(), "120503")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// malformed rows are skipped, valid rows keep feed order (newest first)
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].Date.String() != "2025-08-26" || points[0].NAV != 28.49 {
		t.Errorf("first point = %+v, want 2025-08-26/28.49", points[0])
	}
	if points[1].Date.String() != "2025-08-25" {
		t.Errorf("second point = %+v, want 2025-08-25", points[1])
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	if _, err := c.Fetch(context.Background(), "120503"); err == nil {
		t.Error("Fetch should fail on a 500")
	}
}

func TestFetchAll(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	out, err := c.FetchAll(context.Background(), []string{"120503", "118989", "100033"})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("results = %d schemes, want 3", len(out))
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3", hits.Load())
	}
}

func TestFetchAll_OneFailureFailsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	if _, err := c.FetchAll(context.Background(), []string{"120503", "bad"}); err == nil {
		t.Error("FetchAll should fail when any scheme fails")
	}
}
