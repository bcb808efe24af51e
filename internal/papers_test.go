package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivFeedSample = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2401.01234v1</id>
    <title>Robust Speech Recognition
 via Large-Scale Weak Supervision</title>
    <summary>  We study speech processing systems trained on large amounts of audio.  </summary>
    <published>2024-01-02T18:00:00Z</published>
    <author><name>Alice Example</name></author>
    <author><name>Bob Example</name></author>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all:speech recognition", r.URL.Query().Get("search_query"))
		assert.Equal(t, "5", r.URL.Query().Get("max_results"))
		fmt.Fprint(w, arxivFeedSample)
	}))
	defer srv.Close()

	source := &ArxivSource{BaseURL: srv.URL, Client: srv.Client()}

	papers, err := source.Search(context.Background(), "speech recognition", 5)
	require.NoError(t, err)
	require.Len(t, papers, 1)

	p := papers[0]
	assert.Equal(t, "2401.01234v1", p.ID)
	// newlines that arXiv inserts into titles are collapsed
	assert.Equal(t, "Robust Speech Recognition via Large-Scale Weak Supervision", p.Title)
	assert.Equal(t, "We study speech processing systems trained on large amounts of audio.", p.Abstract)
	assert.Equal(t, []string{"Alice Example", "Bob Example"}, p.Authors)
	assert.Equal(t, "arxiv", p.Source)
}

func TestSemanticScholarSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paper/search", r.URL.Path)
		assert.Equal(t, "whisper", r.URL.Query().Get("query"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		fmt.Fprint(w, `{
			"data": [{
				"paperId": "s2id1",
				"title": "A Paper",
				"abstract": "An abstract.",
				"url": "https://www.semanticscholar.org/paper/s2id1",
				"publicationDate": "2023-05-01",
				"authors": [{"name": "Carol Example"}]
			}]
		}`)
	}))
	defer srv.Close()

	source := &SemanticScholarSource{BaseURL: srv.URL, APIKey: "secret", Client: srv.Client()}

	papers, err := source.Search(context.Background(), "whisper", 10)
	require.NoError(t, err)
	require.Len(t, papers, 1)

	assert.Equal(t, "s2id1", papers[0].ID)
	assert.Equal(t, "A Paper", papers[0].Title)
	assert.Equal(t, []string{"Carol Example"}, papers[0].Authors)
	assert.Equal(t, "semantic-scholar", papers[0].Source)
}

func TestPubMedSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
		assert.Equal(t, "speech", r.URL.Query().Get("term"))
		fmt.Fprint(w, `{"esearchresult": {"idlist": ["11111", "22222"]}}`)
	})
	mux.HandleFunc("/esummary.fcgi", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "11111,22222", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{
			"result": {
				"uids": ["11111", "22222"],
				"11111": {"uid": "11111", "title": "First Study", "pubdate": "2023 Jan", "authors": [{"name": "Dan E"}]},
				"22222": {"uid": "22222", "title": "Second Study", "pubdate": "2022 Dec", "authors": []}
			}
		}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := &PubMedSource{BaseURL: srv.URL, Client: srv.Client()}

	papers, err := source.Search(context.Background(), "speech", 2)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Equal(t, "pubmed:11111", papers[0].ID)
	assert.Equal(t, "First Study", papers[0].Title)
	assert.Equal(t, []string{"Dan E"}, papers[0].Authors)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/11111/", papers[0].URL)
	assert.Equal(t, "Second Study", papers[1].Title)
}

func TestPubMedNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult": {"idlist": []}}`)
	}))
	defer srv.Close()

	source := &PubMedSource{BaseURL: srv.URL, Client: srv.Client()}

	papers, err := source.Search(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestSearchPapersSourceFailureIsolation(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, arxivFeedSample)
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	sources := []PaperSource{
		&ArxivSource{BaseURL: bad.URL, Client: bad.Client()},
		&ArxivSource{BaseURL: good.URL, Client: good.Client()},
	}

	papers, errs := SearchPapers(context.Background(), sources, "q", 5)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "arxiv")
	require.Len(t, papers, 1)
}
