package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// PubMed is a client for the NCBI E-utilities PubMed endpoints.
type PubMed struct {
	BaseURL    string
	HTTPClient *http.Client
	cache      Cache
	RetMax     int
}

// PubMedOption configures a PubMed client.
type PubMedOption func(*PubMed)

// WithPubMedBaseURL sets the base URL for the E-utilities.
func WithPubMedBaseURL(baseURL string) PubMedOption {
	return func(p *PubMed) {
		p.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithPubMedHTTPClient sets the HTTP client.
func WithPubMedHTTPClient(client *http.Client) PubMedOption {
	return func(p *PubMed) {
		p.HTTPClient = client
	}
}

// WithPubMedCache attaches a response cache.
func WithPubMedCache(cache Cache) PubMedOption {
	return func(p *PubMed) {
		p.cache = cache
	}
}

// WithPubMedRetMax sets the default maximum number of results.
func WithPubMedRetMax(retMax int) PubMedOption {
	return func(p *PubMed) {
		if retMax > 0 {
			p.RetMax = retMax
		}
	}
}

// NewPubMed creates a new PubMed client.
func NewPubMed(opts ...PubMedOption) *PubMed {
	p := &PubMed{
		BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		RetMax:  3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the name of the tool.
func (p *PubMed) Name() string {
	return "PubMed"
}

// Description returns the description of the tool.
func (p *PubMed) Description() string {
	return "Searches the PubMed literature database and fetches abstracts. " +
		"Input is a free-text query."
}

// Search returns PubMed IDs (PMIDs) for the query.
func (p *PubMed) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmode", "json")
	params.Set("retmax", fmt.Sprintf("%d", p.RetMax))

	endpoint := fmt.Sprintf("%s/esearch.fcgi?%s", p.BaseURL, params.Encode())

	var result struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := fetchJSON(ctx, p.HTTPClient, p.cache, endpoint, &result); err != nil {
		return nil, fmt.Errorf("pubmed search for %q failed: %w", query, err)
	}
	return result.ESearchResult.IDList, nil
}

// FetchAbstracts retrieves the plain-text abstracts for the given PMIDs.
func (p *PubMed) FetchAbstracts(ctx context.Context, pmids []string) (string, error) {
	if len(pmids) == 0 {
		return "", nil
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "text")
	params.Set("rettype", "abstract")

	endpoint := fmt.Sprintf("%s/efetch.fcgi?%s", p.BaseURL, params.Encode())

	body, err := fetch(ctx, p.HTTPClient, p.cache, endpoint)
	if err != nil {
		return "", fmt.Errorf("pubmed abstract fetch failed: %w", err)
	}
	return string(body), nil
}
