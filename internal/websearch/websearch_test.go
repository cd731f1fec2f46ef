package websearch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearcher(t *testing.T, api, html http.HandlerFunc) *Searcher {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", api)
	mux.HandleFunc("/html/", html)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewSearcher(srv.URL+"/api/", srv.URL+"/html/", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func unexpected(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}
}

func TestSearchInstantAnswer(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wetland", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("no_html"))
		fmt.Fprint(w, `{
			"Answer": "",
			"Abstract": "A wetland is a distinct ecosystem.",
			"Heading": "Wetland",
			"AbstractURL": "https://en.wikipedia.org/wiki/Wetland",
			"RelatedTopics": [
				{"Text": "Marsh - A wetland dominated by herbs", "FirstURL": "https://duckduckgo.com/Marsh"},
				{"Name": "Category", "Topics": []},
				{"Text": "Bog - A peat wetland", "FirstURL": "https://duckduckgo.com/Bog"},
				{"Text": "a", "FirstURL": "https://x/a"},
				{"Text": "b", "FirstURL": "https://x/b"},
				{"Text": "c", "FirstURL": "https://x/c"}
			]
		}`)
	}, unexpected(t))

	results, err := s.Search(context.Background(), " wetland ")
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, Result{Title: "Wetland", Link: "https://en.wikipedia.org/wiki/Wetland", Snippet: "A wetland is a distinct ecosystem."}, results[0])
	assert.Equal(t, "Marsh", results[1].Title)
	assert.Equal(t, "Bog - A peat wetland", results[2].Snippet)
	assert.Equal(t, "b", results[4].Title)
}

func TestSearchScrapesHTMLWhenNoInstantAnswer(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"RelatedTopics": []}`)
	}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alien plants", r.URL.Query().Get("q"))
		fmt.Fprint(w, `<html><body>
			<div class="result">
				<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.sanbi.org%2Fiap&rut=x">Invasive Alien Plants</a>
				<a class="result__snippet">SANBI guidance on IAP control.</a>
			</div>
			<div class="result"><a class="result__snippet">no title</a></div>
			<div class="result">
				<a class="result__a" href="https://example.org/weeds">Weeds</a>
			</div>
		</body></html>`)
	})

	results, err := s.Search(context.Background(), "alien plants")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Result{Title: "Invasive Alien Plants", Link: "https://www.sanbi.org/iap", Snippet: "SANBI guidance on IAP control."}, results[0])
	assert.Equal(t, "https://example.org/weeds", results[1].Link)
}

func TestSearchFallsBackToLinks(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	})

	results, err := s.Search(context.Background(), "soil erodibility")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, `Search Google for "soil erodibility"`, results[0].Title)
	assert.Equal(t, "https://www.google.com/search?q=soil+erodibility", results[0].Link)
	assert.Equal(t, "https://duckduckgo.com/?q=soil+erodibility", results[2].Link)
}

func TestSearchAPIErrorStillGivesLinks(t *testing.T) {
	s := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}, unexpected(t))

	results, err := s.Search(context.Background(), "geology")
	assert.Error(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, results[1].Link, "bing.com")
}

func TestSearchEmptyQuery(t *testing.T) {
	s := newTestSearcher(t, unexpected(t), unexpected(t))

	results, err := s.Search(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, results)
}
