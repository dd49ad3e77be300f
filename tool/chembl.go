package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ChEMBL is a client for the ChEMBL REST API.
type ChEMBL struct {
	BaseURL    string
	HTTPClient *http.Client
	cache      Cache
}

// ChEMBLOption configures a ChEMBL client.
type ChEMBLOption func(*ChEMBL)

// WithChEMBLBaseURL sets the base URL for the ChEMBL API.
func WithChEMBLBaseURL(baseURL string) ChEMBLOption {
	return func(c *ChEMBL) {
		c.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithChEMBLHTTPClient sets the HTTP client.
func WithChEMBLHTTPClient(client *http.Client) ChEMBLOption {
	return func(c *ChEMBL) {
		c.HTTPClient = client
	}
}

// WithChEMBLCache attaches a response cache.
func WithChEMBLCache(cache Cache) ChEMBLOption {
	return func(c *ChEMBL) {
		c.cache = cache
	}
}

// NewChEMBL creates a new ChEMBL client.
func NewChEMBL(opts ...ChEMBLOption) *ChEMBL {
	c := &ChEMBL{
		BaseURL: "https://www.ebi.ac.uk/chembl/api/data",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the name of the tool.
func (c *ChEMBL) Name() string {
	return "ChEMBL"
}

// Description returns the description of the tool.
func (c *ChEMBL) Description() string {
	return "Finds compounds with measured bioactivity against a gene/protein target " +
		"in the ChEMBL database. Input is a target name or symbol."
}

// ChEMBLCompound is a compound with recorded activity against a target.
type ChEMBLCompound struct {
	ChEMBLID string `json:"chembl_id"`
	PrefName string `json:"pref_name"`
}

// CompoundsForTarget searches ChEMBL for the target, takes the best match and
// returns compounds from its recorded activities.
func (c *ChEMBL) CompoundsForTarget(ctx context.Context, target string, limit int) ([]ChEMBLCompound, error) {
	if limit <= 0 {
		limit = 5
	}

	searchURL := fmt.Sprintf("%s/target/search?q=%s&format=json", c.BaseURL, url.QueryEscape(target))

	var search struct {
		PageMeta struct {
			TotalCount int `json:"total_count"`
		} `json:"page_meta"`
		Targets []struct {
			TargetChEMBLID string `json:"target_chembl_id"`
		} `json:"targets"`
	}
	if err := fetchJSON(ctx, c.HTTPClient, c.cache, searchURL, &search); err != nil {
		return nil, fmt.Errorf("chembl target search for %q failed: %w", target, err)
	}
	if search.PageMeta.TotalCount == 0 || len(search.Targets) == 0 {
		return nil, nil
	}
	targetID := search.Targets[0].TargetChEMBLID

	activityURL := fmt.Sprintf("%s/activity?target_chembl_id=%s&limit=%d&format=json",
		c.BaseURL, url.QueryEscape(targetID), limit)

	var activities struct {
		Activities []struct {
			MoleculeChEMBLID string `json:"molecule_chembl_id"`
		} `json:"activities"`
	}
	if err := fetchJSON(ctx, c.HTTPClient, c.cache, activityURL, &activities); err != nil {
		return nil, fmt.Errorf("chembl activity lookup for %s failed: %w", targetID, err)
	}

	var compounds []ChEMBLCompound
	for _, act := range activities.Activities {
		if act.MoleculeChEMBLID == "" {
			continue
		}
		// Preferred name is best-effort; a failed molecule lookup still
		// yields the ChEMBL ID.
		prefName, _ := c.moleculePrefName(ctx, act.MoleculeChEMBLID)
		compounds = append(compounds, ChEMBLCompound{
			ChEMBLID: act.MoleculeChEMBLID,
			PrefName: prefName,
		})
	}
	return compounds, nil
}

func (c *ChEMBL) moleculePrefName(ctx context.Context, chemblID string) (string, error) {
	moleculeURL := fmt.Sprintf("%s/molecule/%s.json", c.BaseURL, url.PathEscape(chemblID))

	var molecule struct {
		PrefName string `json:"pref_name"`
	}
	if err := fetchJSON(ctx, c.HTTPClient, c.cache, moleculeURL, &molecule); err != nil {
		return "", err
	}
	return molecule.PrefName, nil
}
