package dataflows

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
)

// sinaRow builds a quote response with the given prev close, price and
// trailing fields padded out to a full-length row.
func sinaRow(prevClose, price string, trailing []string) string {
	fields := []string{
		"标普500ETF", "1.850", prevClose, price, "1.900", "1.840",
		"1.889", "1.890", "123456789", "233000000.00",
		"100", "1.889", "200", "1.888", "300", "1.887",
		"400", "1.886", "500", "1.885",
	}
	fields = append(fields, trailing...)
	for len(fields) < minSinaFields+2 {
		fields = append(fields, "0")
	}
	return fmt.Sprintf("var hq_str_sh513500=\"%s\";", strings.Join(fields, ","))
}

func TestParseSinaRow(t *testing.T) {
	fields, err := parseSinaRow(sinaRow("1.880", "1.890", nil))
	if err != nil {
		t.Fatalf("parseSinaRow: %v", err)
	}
	if fields[2] != "1.880" || fields[3] != "1.890" {
		t.Errorf("fields[2:4] = %v, want prev close and price", fields[2:4])
	}
}

func TestParseSinaRowRejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no assignment", "garbage"},
		{"unterminated", `var hq_str_sh513500="a,b,c`},
		{"too few fields", `var hq_str_sh513500="a,b,c";`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSinaRow(tt.body); err == nil {
				t.Errorf("parseSinaRow(%q) succeeded, want error", tt.body)
			}
		})
	}
}

func TestScanForNav(t *testing.T) {
	fields, err := parseSinaRow(sinaRow("1.880", "1.890", []string{"600", "1.800", "800"}))
	if err != nil {
		t.Fatalf("parseSinaRow: %v", err)
	}

	nav, ok := scanForNav(fields, 1.890)
	if !ok {
		t.Fatal("scanForNav found nothing")
	}
	if nav != 1.800 {
		t.Errorf("nav = %v, want 1.800", nav)
	}
}

func TestScanForNavRejectsImplausibleValues(t *testing.T) {
	// Volumes, tiny fractions and dates never pass the plausibility gate.
	fields, err := parseSinaRow(sinaRow("1.880", "1.890",
		[]string{"600", "0.123", "2026-08-28", "15:00:00", "98765"}))
	if err != nil {
		t.Fatalf("parseSinaRow: %v", err)
	}
	if nav, ok := scanForNav(fields, 1.890); ok {
		t.Fatalf("scanForNav returned %v from implausible fields", nav)
	}
}

func TestSinaSourceFetchWithNav(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.String(), "sh513500") {
			t.Errorf("unexpected request %q", r.URL.String())
		}
		if r.Header.Get("Referer") == "" {
			t.Error("missing Referer header")
		}
		fmt.Fprint(w, sinaRow("1.880", "1.890", []string{"600", "1.800", "800"}))
	}))
	defer srv.Close()

	src := &SinaSource{
		Client:     resty.New(),
		BaseURL:    srv.URL + "/list=",
		Instrument: testInstrument,
	}

	value, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if math.Abs(value.Pct-5.0) > 1e-9 {
		t.Errorf("premium = %v, want 5.0", value.Pct)
	}
	if value.Estimated {
		t.Error("nav-derived premium flagged estimated")
	}
}

func TestSinaSourceEstimatesWithoutNav(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sinaRow("1.880", "1.890", []string{"600", "98765", "2026-08-28"}))
	}))
	defer srv.Close()

	src := &SinaSource{
		Client:     resty.New(),
		BaseURL:    srv.URL + "/list=",
		Instrument: testInstrument,
	}

	value, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !value.Estimated {
		t.Fatal("nav-less premium not flagged estimated")
	}

	movePct := (1.890 - 1.880) / 1.880 * 100
	want := 0.8 + movePct*0.1
	if math.Abs(value.Pct-want) > 1e-9 {
		t.Errorf("premium = %v, want %v", value.Pct, want)
	}
}

func TestSinaSourceInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not a quote row")
	}))
	defer srv.Close()

	src := &SinaSource{
		Client:     resty.New(),
		BaseURL:    srv.URL + "/list=",
		Instrument: testInstrument,
	}
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
}
