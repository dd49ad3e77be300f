// Package tool contains thin clients for the public scientific APIs used by
// the discovery agents: PubChem PUG REST, ChEMBL, PubMed E-utilities, KEGG
// REST and the AlphaFold structure database, plus target extraction helpers.
//
// All clients follow the same shape: a struct with a configurable base URL
// and HTTP client, functional options, and context-first methods returning
// typed results with wrapped errors. An optional Cache avoids re-fetching
// identical requests.
package tool
