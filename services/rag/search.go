package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/config"
	"github.com/bioscout-islamabad/backend/services"
)

// internetResultScore is the default relevance attached to externally sourced
// documents; lower confidence than a local corpus hit.
const internetResultScore = 0.5

// ExternalSearcher is the fallback information lookup invoked when local
// retrieval is insufficient. Implementations must be safe to call
// concurrently.
type ExternalSearcher interface {
	// Search issues the query to the external capability. Callers treat
	// any failure as "no results".
	Search(ctx context.Context, query string) ([]Document, error)
}

// HTTPSearcher implements ExternalSearcher against a JSON search API.
// A zero-value base URL disables it: every call returns no results.
type HTTPSearcher struct {
	baseURL         string
	regionQualifier string
	maxResults      int
	client          *http.Client
	logger          *zap.Logger
}

// NewHTTPSearcher creates an HTTPSearcher from configuration
func NewHTTPSearcher(cfg config.SearchConfig, logger *zap.Logger) *HTTPSearcher {
	return &HTTPSearcher{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		regionQualifier: cfg.RegionQualifier,
		maxResults:      cfg.MaxResults,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// searchResponse is the search API response format
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Search issues the augmented query to the search API and maps each result
// to an internet-sourced Document. The query is augmented with the region
// qualifier so results stay on-topic for local biodiversity.
func (s *HTTPSearcher) Search(ctx context.Context, query string) ([]Document, error) {
	if s.baseURL == "" {
		s.logger.Debug("external search disabled, no base URL configured")
		return nil, nil
	}

	augmented := strings.TrimSpace(query + " " + s.regionQualifier)

	endpoint := fmt.Sprintf("%s/search?q=%s&count=%d",
		s.baseURL, url.QueryEscape(augmented), s.maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.WrapError(services.ErrorTypeExternalSearch, "building search request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, services.WrapError(services.ErrorTypeExternalSearch, "calling search API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.WrapError(services.ErrorTypeExternalSearch,
			fmt.Sprintf("search API returned status %d", resp.StatusCode), nil)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, services.WrapError(services.ErrorTypeExternalSearch, "decoding search response", err)
	}

	docs := make([]Document, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		text := result.Title
		if result.Snippet != "" {
			text += "\n" + result.Snippet
		}
		if text == "" {
			continue
		}
		docs = append(docs, Document{
			Text:   text,
			Source: internetSourceLabel,
			Score:  internetResultScore,
			Kind:   SourceInternet,
		})
		if len(docs) >= s.maxResults {
			break
		}
	}

	s.logger.Debug("external search complete", zap.Int("results", len(docs)))
	return docs, nil
}
