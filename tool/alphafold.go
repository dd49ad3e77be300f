package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AlphaFold fetches predicted protein structures (PDB files) from the
// AlphaFold database, caching them in a local directory.
type AlphaFold struct {
	BaseURL    string
	HTTPClient *http.Client
	// StructureDir holds downloaded PDB files. Files already present are
	// served without a network request.
	StructureDir string
}

// AlphaFoldOption configures an AlphaFold client.
type AlphaFoldOption func(*AlphaFold)

// WithAlphaFoldBaseURL sets the base URL for structure downloads.
func WithAlphaFoldBaseURL(baseURL string) AlphaFoldOption {
	return func(a *AlphaFold) {
		a.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithAlphaFoldHTTPClient sets the HTTP client.
func WithAlphaFoldHTTPClient(client *http.Client) AlphaFoldOption {
	return func(a *AlphaFold) {
		a.HTTPClient = client
	}
}

// WithStructureDir sets the local cache directory for PDB files.
func WithStructureDir(dir string) AlphaFoldOption {
	return func(a *AlphaFold) {
		a.StructureDir = dir
	}
}

// NewAlphaFold creates a new AlphaFold client.
func NewAlphaFold(opts ...AlphaFoldOption) *AlphaFold {
	a := &AlphaFold{
		BaseURL:      "https://alphafold.ebi.ac.uk/files",
		StructureDir: "data/alphafold_structures",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the name of the tool.
func (a *AlphaFold) Name() string {
	return "AlphaFold"
}

// Description returns the description of the tool.
func (a *AlphaFold) Description() string {
	return "Retrieves the predicted protein structure (PDB format) for a UniProt " +
		"accession from the AlphaFold database."
}

// Structure returns the PDB file contents for the given UniProt accession,
// downloading and caching it locally when missing.
func (a *AlphaFold) Structure(ctx context.Context, uniprotID string) (string, error) {
	path := filepath.Join(a.StructureDir, uniprotID+".pdb")
	if data, err := os.ReadFile(path); err == nil {
		return string(data), nil
	}

	if err := os.MkdirAll(a.StructureDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create structure dir: %w", err)
	}

	pdbURL := fmt.Sprintf("%s/AF-%s-F1-model_v4.pdb", a.BaseURL, uniprotID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdbURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download structure for %s: %w", uniprotID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("alphafold structure for %s not found (status %d)",
			uniprotID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read structure for %s: %w", uniprotID, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to cache structure for %s: %w", uniprotID, err)
	}
	return string(data), nil
}
