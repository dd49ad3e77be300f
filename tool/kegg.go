package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// KEGG is a client for the KEGG REST API, which serves tab-separated text.
type KEGG struct {
	BaseURL    string
	HTTPClient *http.Client
	cache      Cache
}

// KEGGOption configures a KEGG client.
type KEGGOption func(*KEGG)

// WithKEGGBaseURL sets the base URL for the KEGG REST API.
func WithKEGGBaseURL(baseURL string) KEGGOption {
	return func(k *KEGG) {
		k.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithKEGGHTTPClient sets the HTTP client.
func WithKEGGHTTPClient(client *http.Client) KEGGOption {
	return func(k *KEGG) {
		k.HTTPClient = client
	}
}

// WithKEGGCache attaches a response cache.
func WithKEGGCache(cache Cache) KEGGOption {
	return func(k *KEGG) {
		k.cache = cache
	}
}

// NewKEGG creates a new KEGG client.
func NewKEGG(opts ...KEGGOption) *KEGG {
	k := &KEGG{
		BaseURL: "https://rest.kegg.jp",
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Name returns the name of the tool.
func (k *KEGG) Name() string {
	return "KEGG"
}

// Description returns the description of the tool.
func (k *KEGG) Description() string {
	return "Finds biological pathways associated with a disease in the KEGG database. " +
		"Input is a disease name."
}

// DiseasePathways searches KEGG diseases matching the name and returns the
// de-duplicated pathway IDs linked to them.
func (k *KEGG) DiseasePathways(ctx context.Context, disease string) ([]string, error) {
	findURL := fmt.Sprintf("%s/find/disease/%s", k.BaseURL, url.PathEscape(disease))

	body, err := fetch(ctx, k.HTTPClient, k.cache, findURL)
	if err != nil {
		return nil, fmt.Errorf("kegg disease search for %q failed: %w", disease, err)
	}

	var diseaseIDs []string
	for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
		fields := strings.SplitN(line, "\t", 2)
		if fields[0] != "" {
			diseaseIDs = append(diseaseIDs, fields[0])
		}
	}

	seen := make(map[string]bool)
	var pathways []string
	for _, did := range diseaseIDs {
		linkURL := fmt.Sprintf("%s/link/pathway/%s", k.BaseURL, url.PathEscape(did))

		linkBody, err := fetch(ctx, k.HTTPClient, k.cache, linkURL)
		if err != nil {
			// A disease without linked pathways is not fatal.
			continue
		}
		for _, line := range strings.Split(strings.TrimSpace(string(linkBody)), "\n") {
			fields := strings.Split(line, "\t")
			if len(fields) != 2 {
				continue
			}
			pathway := strings.TrimPrefix(fields[1], "path:")
			if pathway != "" && !seen[pathway] {
				seen[pathway] = true
				pathways = append(pathways, pathway)
			}
		}
	}

	sort.Strings(pathways)
	return pathways, nil
}
