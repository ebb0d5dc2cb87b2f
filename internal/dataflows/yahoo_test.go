package dataflows

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
)

func TestYahooChartSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/%5EGSPC" && r.URL.Path != "/^GSPC" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":4950.0,"previousClose":5000.0}}]}}`))
	}))
	defer srv.Close()

	src := &YahooChartSource{Client: resty.New(), BaseURL: srv.URL, Symbol: "^GSPC"}
	value, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if math.Abs(value.Pct-(-1.0)) > 1e-9 {
		t.Errorf("change = %v, want -1.0", value.Pct)
	}
	if value.Estimated {
		t.Error("chart value flagged estimated")
	}
}

func TestYahooChartSourceRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty result", `{"chart":{"result":[]}}`},
		{"zero previous close", `{"chart":{"result":[{"meta":{"regularMarketPrice":100,"previousClose":0}}]}}`},
		{"not json", `<html>busy</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := &YahooChartSource{Client: resty.New(), BaseURL: srv.URL, Symbol: "^GSPC"}
			_, err := src.Fetch(context.Background())
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("err = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestYahooChartSourceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := &YahooChartSource{Client: resty.New(), BaseURL: srv.URL, Symbol: "^GSPC"}
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch succeeded on 429 response")
	}
}
