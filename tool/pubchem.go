package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// compoundProps is the property list requested from the PUG REST property
// endpoint. It carries everything the chem package needs to build an ADMET
// profile without local descriptor computation.
const compoundProps = "MolecularWeight,MolecularFormula,IUPACName,CanonicalSMILES," +
	"XLogP,TPSA,HBondDonorCount,HBondAcceptorCount,RotatableBondCount"

// PubChem is a client for the PubChem PUG REST API.
type PubChem struct {
	BaseURL    string
	HTTPClient *http.Client
	cache      Cache
}

// PubChemOption configures a PubChem client.
type PubChemOption func(*PubChem)

// WithPubChemBaseURL sets the base URL for the PUG REST API.
func WithPubChemBaseURL(baseURL string) PubChemOption {
	return func(p *PubChem) {
		p.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithPubChemHTTPClient sets the HTTP client.
func WithPubChemHTTPClient(client *http.Client) PubChemOption {
	return func(p *PubChem) {
		p.HTTPClient = client
	}
}

// WithPubChemCache attaches a response cache.
func WithPubChemCache(cache Cache) PubChemOption {
	return func(p *PubChem) {
		p.cache = cache
	}
}

// NewPubChem creates a new PubChem client.
func NewPubChem(opts ...PubChemOption) *PubChem {
	p := &PubChem{
		BaseURL: "https://pubchem.ncbi.nlm.nih.gov/rest/pug",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the name of the tool.
func (p *PubChem) Name() string {
	return "PubChem"
}

// Description returns the description of the tool.
func (p *PubChem) Description() string {
	return "Looks up compound properties and bioassay compounds in the PubChem database. " +
		"Input is a compound name, a numeric CID, or a gene/protein target."
}

// CompoundProperties holds the molecular properties of a PubChem compound.
type CompoundProperties struct {
	CID                int       `json:"CID"`
	MolecularWeight    flexFloat `json:"MolecularWeight"`
	MolecularFormula   string    `json:"MolecularFormula"`
	IUPACName          string    `json:"IUPACName"`
	CanonicalSMILES    string    `json:"CanonicalSMILES"`
	XLogP              flexFloat `json:"XLogP"`
	TPSA               flexFloat `json:"TPSA"`
	HBondDonorCount    int       `json:"HBondDonorCount"`
	HBondAcceptorCount int       `json:"HBondAcceptorCount"`
	RotatableBondCount int       `json:"RotatableBondCount"`
}

// flexFloat decodes PUG REST numeric properties, which arrive either as JSON
// numbers or as quoted strings depending on the property.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric property %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

type propertyTable struct {
	PropertyTable struct {
		Properties []CompoundProperties `json:"Properties"`
	} `json:"PropertyTable"`
}

// Properties looks up compound properties by name or numeric CID.
func (p *PubChem) Properties(ctx context.Context, compound string) (*CompoundProperties, error) {
	var endpoint string
	if isDigits(compound) {
		endpoint = fmt.Sprintf("%s/compound/cid/%s/property/%s/JSON", p.BaseURL, compound, compoundProps)
	} else {
		endpoint = fmt.Sprintf("%s/compound/name/%s/property/%s/JSON", p.BaseURL, url.PathEscape(compound), compoundProps)
	}

	var table propertyTable
	if err := fetchJSON(ctx, p.HTTPClient, p.cache, endpoint, &table); err != nil {
		return nil, fmt.Errorf("pubchem lookup for %q failed: %w", compound, err)
	}
	if len(table.PropertyTable.Properties) == 0 {
		return nil, fmt.Errorf("pubchem returned no properties for %q", compound)
	}
	return &table.PropertyTable.Properties[0], nil
}

// CIDsForName returns the compound IDs matching a name.
func (p *PubChem) CIDsForName(ctx context.Context, name string) ([]int, error) {
	endpoint := fmt.Sprintf("%s/compound/name/%s/cids/JSON", p.BaseURL, url.PathEscape(name))

	var result struct {
		IdentifierList struct {
			CID []int `json:"CID"`
		} `json:"IdentifierList"`
	}
	if err := fetchJSON(ctx, p.HTTPClient, p.cache, endpoint, &result); err != nil {
		return nil, fmt.Errorf("pubchem cid search for %q failed: %w", name, err)
	}
	return result.IdentifierList.CID, nil
}

// TargetCompound is a compound linked to a bioassay target.
type TargetCompound struct {
	CID       int    `json:"cid"`
	IUPACName string `json:"iupac_name"`
}

// CompoundsForTarget queries PubChem for compounds known to interact with a
// protein/gene target. UniProt accessions are mapped to Entrez gene IDs
// first; bare gene symbols use the genesymbol assay endpoint. When the assay
// route yields nothing, it falls back to a compound name search.
func (p *PubChem) CompoundsForTarget(ctx context.Context, target string, maxResults int) ([]TargetCompound, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	var endpoint string
	if entrezID, ok := UniProtToEntrez[target]; ok {
		endpoint = fmt.Sprintf("%s/assay/target/geneid/%s/aids/JSON", p.BaseURL, entrezID)
	} else if looksLikeGeneSymbol(target) {
		endpoint = fmt.Sprintf("%s/assay/target/genesymbol/%s/aids/JSON", p.BaseURL, url.PathEscape(target))
	} else {
		endpoint = fmt.Sprintf("%s/assay/target/gene/%s/aids/JSON", p.BaseURL, url.PathEscape(target))
	}

	aids, err := p.fetchAIDs(ctx, endpoint)
	if err != nil || len(aids) == 0 {
		return p.nameSearchFallback(ctx, target, maxResults, err)
	}
	if len(aids) > maxResults {
		aids = aids[:maxResults]
	}

	seen := make(map[int]bool)
	var cids []int
	for _, aid := range aids {
		assayCIDs, err := p.fetchAssayCIDs(ctx, aid)
		if err != nil {
			continue
		}
		if len(assayCIDs) > maxResults {
			assayCIDs = assayCIDs[:maxResults]
		}
		for _, cid := range assayCIDs {
			if !seen[cid] {
				seen[cid] = true
				cids = append(cids, cid)
			}
		}
	}
	if len(cids) > maxResults {
		cids = cids[:maxResults]
	}

	compounds := p.namedCompounds(ctx, cids)
	if len(compounds) == 0 {
		return p.nameSearchFallback(ctx, target, maxResults, nil)
	}
	return compounds, nil
}

// fetchAIDs handles both the InformationList and IdentifierList shapes the
// assay target endpoints return.
func (p *PubChem) fetchAIDs(ctx context.Context, endpoint string) ([]int, error) {
	var result struct {
		InformationList struct {
			Information []struct {
				AID []int `json:"AID"`
			} `json:"Information"`
		} `json:"InformationList"`
		IdentifierList struct {
			AID []int `json:"AID"`
		} `json:"IdentifierList"`
	}
	if err := fetchJSON(ctx, p.HTTPClient, p.cache, endpoint, &result); err != nil {
		return nil, err
	}
	if len(result.InformationList.Information) > 0 {
		return result.InformationList.Information[0].AID, nil
	}
	return result.IdentifierList.AID, nil
}

func (p *PubChem) fetchAssayCIDs(ctx context.Context, aid int) ([]int, error) {
	endpoint := fmt.Sprintf("%s/assay/aid/%d/cids/JSON", p.BaseURL, aid)

	var result struct {
		InformationList struct {
			Information []struct {
				CID []int `json:"CID"`
			} `json:"Information"`
		} `json:"InformationList"`
	}
	if err := fetchJSON(ctx, p.HTTPClient, p.cache, endpoint, &result); err != nil {
		return nil, err
	}
	if len(result.InformationList.Information) == 0 {
		return nil, nil
	}
	return result.InformationList.Information[0].CID, nil
}

func (p *PubChem) namedCompounds(ctx context.Context, cids []int) []TargetCompound {
	var compounds []TargetCompound
	for _, cid := range cids {
		endpoint := fmt.Sprintf("%s/compound/cid/%d/property/IUPACName/JSON", p.BaseURL, cid)

		var table propertyTable
		name := ""
		if err := fetchJSON(ctx, p.HTTPClient, p.cache, endpoint, &table); err == nil &&
			len(table.PropertyTable.Properties) > 0 {
			name = table.PropertyTable.Properties[0].IUPACName
		}
		compounds = append(compounds, TargetCompound{CID: cid, IUPACName: name})
	}
	return compounds
}

func (p *PubChem) nameSearchFallback(ctx context.Context, target string, maxResults int, cause error) ([]TargetCompound, error) {
	cids, err := p.CIDsForName(ctx, target)
	if err != nil {
		if cause != nil {
			return nil, fmt.Errorf("pubchem target lookup for %q failed: %w", target, cause)
		}
		return nil, fmt.Errorf("pubchem target lookup for %q failed: %w", target, err)
	}
	if len(cids) > maxResults {
		cids = cids[:maxResults]
	}
	return p.namedCompounds(ctx, cids), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// looksLikeGeneSymbol reports whether the target resembles an HGNC symbol
// (short, upper-case letters and digits, at least one letter).
func looksLikeGeneSymbol(s string) bool {
	if len(s) == 0 || len(s) > 10 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return hasLetter
}
