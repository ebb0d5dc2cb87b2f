package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"

	"etfradar/internal/logger"
)

const samplePage = `<html><body>
<article><h3>美联储宣布加息25个基点</h3><a href="./a1">link</a></article>
<article><h4>AI芯片需求持续旺盛</h4><a href="./a2">link</a></article>
<article><div>no title here</div></article>
<article><h3>  医药板块集体走强  </h3></article>
</body></html>`

func newTestScraper(baseURL string) *Scraper {
	return &Scraper{
		Client:  resty.New(),
		BaseURL: baseURL,
		Log:     logger.Nop(),
	}
}

func TestHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "美股" {
			t.Errorf("q = %q, want 美股", got)
		}
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	titles, err := newTestScraper(srv.URL).Headlines(context.Background(), "美股")
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}

	want := []string{"美联储宣布加息25个基点", "AI芯片需求持续旺盛", "医药板块集体走强"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestHeadlinesEmptyQuery(t *testing.T) {
	if _, err := newTestScraper("http://unused").Headlines(context.Background(), "  "); err == nil {
		t.Fatal("empty query accepted")
	}
}

func TestHeadlinesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newTestScraper(srv.URL).Headlines(context.Background(), "美股"); err == nil {
		t.Fatal("503 response accepted")
	}
}

func TestHeadlinesCapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < defaultMaxHeadlines+10; i++ {
		fmt.Fprintf(&sb, "<article><h3>标题%d</h3></article>", i)
	}
	sb.WriteString("</body></html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sb.String())
	}))
	defer srv.Close()

	titles, err := newTestScraper(srv.URL).Headlines(context.Background(), "美股")
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}
	if len(titles) != defaultMaxHeadlines {
		t.Fatalf("got %d titles, want cap %d", len(titles), defaultMaxHeadlines)
	}
}
