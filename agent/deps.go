package agent

import (
	"context"

	"github.com/moleculab/drugflow/tool"
)

// PropertyLookup resolves compound names or CIDs to molecular properties.
type PropertyLookup interface {
	Properties(ctx context.Context, compound string) (*tool.CompoundProperties, error)
}

// LiteratureSearcher finds publications and fetches their abstracts.
type LiteratureSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
	FetchAbstracts(ctx context.Context, pmids []string) (string, error)
}

// StructureFetcher retrieves predicted protein structures.
type StructureFetcher interface {
	Structure(ctx context.Context, uniprotID string) (string, error)
}

// TargetCompoundFinder lists compounds known to act on a target.
type TargetCompoundFinder interface {
	CompoundsForTarget(ctx context.Context, target string, maxResults int) ([]tool.TargetCompound, error)
}
