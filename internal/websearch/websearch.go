// Package websearch answers free-text queries from DuckDuckGo, degrading to
// links for the big search engines when nothing useful comes back.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultAPIURL  = "https://api.duckduckgo.com/"
	DefaultHTMLURL = "https://html.duckduckgo.com/html/"

	maxRelatedTopics = 5
	maxHTMLResults   = 8
)

type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type instantAnswer struct {
	Answer        string `json:"Answer"`
	AnswerURL     string `json:"AnswerURL"`
	Abstract      string `json:"Abstract"`
	Heading       string `json:"Heading"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

type Searcher struct {
	apiURL  string
	htmlURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewSearcher(apiURL, htmlURL string, logger *slog.Logger) *Searcher {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if htmlURL == "" {
		htmlURL = DefaultHTMLURL
	}
	return &Searcher{
		apiURL:  apiURL,
		htmlURL: htmlURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Search returns results for query. When the instant answer API has nothing,
// the DuckDuckGo HTML results page is scraped; when that is empty too the
// results are links to run the query elsewhere. If the API call itself fails
// the error is returned together with fallback links.
func (s *Searcher) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	results, err := s.instant(ctx, query)
	if err != nil {
		return fallbackLinks(query)[:2], err
	}
	if len(results) > 0 {
		return results, nil
	}

	results, err = s.scrape(ctx, query)
	if err != nil {
		s.logger.Warn("duckduckgo html search failed", "query", query, "error", err)
	}
	if len(results) > 0 {
		return results, nil
	}
	return fallbackLinks(query), nil
}

func (s *Searcher) instant(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	body, err := s.get(ctx, s.apiURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer s.close(body)

	var data instantAnswer
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	var results []Result
	if data.Answer != "" {
		results = append(results, Result{Title: "Instant Answer", Link: orHash(data.AnswerURL), Snippet: data.Answer})
	}
	if data.Abstract != "" {
		title := data.Heading
		if title == "" {
			title = "Abstract"
		}
		results = append(results, Result{Title: title, Link: orHash(data.AbstractURL), Snippet: data.Abstract})
	}
	topics := data.RelatedTopics
	if len(topics) > maxRelatedTopics {
		topics = topics[:maxRelatedTopics]
	}
	for _, topic := range topics {
		if topic.Text == "" || topic.FirstURL == "" {
			continue
		}
		title, _, _ := strings.Cut(topic.Text, " - ")
		if title == "" {
			title = "Related Topic"
		}
		results = append(results, Result{Title: title, Link: topic.FirstURL, Snippet: topic.Text})
	}
	return results, nil
}

func (s *Searcher) scrape(ctx context.Context, query string) ([]Result, error) {
	body, err := s.get(ctx, s.htmlURL+"?"+url.Values{"q": {query}}.Encode())
	if err != nil {
		return nil, err
	}
	defer s.close(body)

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		a := sel.Find("a.result__a").First()
		title := strings.TrimSpace(a.Text())
		href, ok := a.Attr("href")
		if title == "" || !ok {
			return true
		}
		results = append(results, Result{
			Title:   title,
			Link:    resolveRedirect(href),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return len(results) < maxHTMLResults
	})
	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func (s *Searcher) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "xamu-field/1.0")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call search: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.close(resp.Body)
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *Searcher) close(c io.Closer) {
	if err := c.Close(); err != nil {
		s.logger.Warn("failed to close search response body", "error", err)
	}
}

func orHash(link string) string {
	if link == "" {
		return "#"
	}
	return link
}

func fallbackLinks(query string) []Result {
	q := url.QueryEscape(query)
	return []Result{
		{Title: fmt.Sprintf("Search Google for %q", query), Link: "https://www.google.com/search?q=" + q, Snippet: "Click to search on Google"},
		{Title: fmt.Sprintf("Search Bing for %q", query), Link: "https://www.bing.com/search?q=" + q, Snippet: "Click to search on Bing"},
		{Title: fmt.Sprintf("Search DuckDuckGo for %q", query), Link: "https://duckduckgo.com/?q=" + q, Snippet: "Click to search on DuckDuckGo"},
	}
}
