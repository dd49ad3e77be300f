package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubMedSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/esearch.fcgi", r.URL.Path)
		assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
		assert.Equal(t, "EGFR lung cancer", r.URL.Query().Get("term"))
		assert.Equal(t, "2", r.URL.Query().Get("retmax"))
		fmt.Fprint(w, `{"esearchresult":{"idlist":["11111111","22222222"]}}`)
	}))
	defer server.Close()

	client := NewPubMed(WithPubMedBaseURL(server.URL), WithPubMedRetMax(2))
	pmids, err := client.Search(context.Background(), "EGFR lung cancer")
	require.NoError(t, err)
	assert.Equal(t, []string{"11111111", "22222222"}, pmids)
}

func TestPubMedFetchAbstracts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/efetch.fcgi", r.URL.Path)
		assert.Equal(t, "11111111,22222222", r.URL.Query().Get("id"))
		assert.Equal(t, "abstract", r.URL.Query().Get("rettype"))
		fmt.Fprint(w, "EGFR mutations drive lung cancer.\n\nTP53 loss cooperates with EGFR.")
	}))
	defer server.Close()

	client := NewPubMed(WithPubMedBaseURL(server.URL))
	text, err := client.FetchAbstracts(context.Background(), []string{"11111111", "22222222"})
	require.NoError(t, err)
	assert.Contains(t, text, "EGFR mutations")
}

func TestPubMedFetchAbstractsEmptyPMIDs(t *testing.T) {
	client := NewPubMed()
	text, err := client.FetchAbstracts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestPubMedSearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewPubMed(WithPubMedBaseURL(server.URL))
	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)
}
