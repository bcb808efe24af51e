package internal

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Paper is one research paper collected from an external source
type Paper struct {
	ID        string
	Title     string
	Abstract  string
	Authors   []string
	URL       string
	Published string
	Source    string
}

// PaperSource is implemented by each academic database client. Sources
// are queried independently; one source failing never hides results from
// the others.
type PaperSource interface {
	Search(ctx context.Context, query string, limit int) ([]Paper, error)
	Name() string
}

// SearchPapers queries every source sequentially and merges the results.
// Per-source failures are collected and returned alongside the papers.
func SearchPapers(ctx context.Context, sources []PaperSource, query string, limit int) ([]Paper, []error) {
	var papers []Paper
	var errs []error

	for _, source := range sources {
		found, err := source.Search(ctx, query, limit)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", source.Name(), err))
			continue
		}
		papers = append(papers, found...)
	}

	return papers, errs
}

func fetchBody(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", appName)

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %q", res.StatusCode, string(body))
	}

	return body, nil
}

// --- arXiv (Atom XML API) ---

// ArxivSource queries the arXiv export API.
// Docs: https://info.arxiv.org/help/api/index.html
type ArxivSource struct {
	BaseURL string
	Client  *http.Client
}

func NewArxivSource() *ArxivSource {
	return &ArxivSource{
		BaseURL: "http://export.arxiv.org/api/query",
		Client:  http.DefaultClient,
	}
}

func (s *ArxivSource) Name() string { return "arxiv" }

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

func (s *ArxivSource) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", limit))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	body, err := fetchBody(ctx, s.Client, s.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		authors := make([]string, 0, len(entry.Authors))
		for _, a := range entry.Authors {
			authors = append(authors, a.Name)
		}

		papers = append(papers, Paper{
			ID: strings.TrimPrefix(entry.ID, "http://arxiv.org/abs/"),
			// arXiv inserts newlines into long titles
			Title:     strings.Join(strings.Fields(entry.Title), " "),
			Abstract:  strings.TrimSpace(entry.Summary),
			Authors:   authors,
			URL:       entry.ID,
			Published: entry.Published,
			Source:    s.Name(),
		})
	}

	return papers, nil
}

// --- Semantic Scholar (Graph API, JSON) ---

// SemanticScholarSource queries the Semantic Scholar Graph API. An API
// key is optional; without one the shared public rate limit applies.
type SemanticScholarSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewSemanticScholarSource(apiKey string) *SemanticScholarSource {
	return &SemanticScholarSource{
		BaseURL: "https://api.semanticscholar.org/graph/v1",
		APIKey:  apiKey,
		Client:  http.DefaultClient,
	}
}

func (s *SemanticScholarSource) Name() string { return "semantic-scholar" }

type semanticScholarResponse struct {
	Data []struct {
		PaperID         string `json:"paperId"`
		Title           string `json:"title"`
		Abstract        string `json:"abstract"`
		URL             string `json:"url"`
		PublicationDate string `json:"publicationDate"`
		Authors         []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"data"`
}

func (s *SemanticScholarSource) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("fields", "title,abstract,url,publicationDate,authors")

	searchURL := s.BaseURL + "/paper/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", appName)
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %q", res.StatusCode, string(body))
	}

	var parsed semanticScholarResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	papers := make([]Paper, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		authors := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			authors = append(authors, a.Name)
		}

		papers = append(papers, Paper{
			ID:        item.PaperID,
			Title:     item.Title,
			Abstract:  item.Abstract,
			Authors:   authors,
			URL:       item.URL,
			Published: item.PublicationDate,
			Source:    s.Name(),
		})
	}

	return papers, nil
}

// --- PubMed (E-utilities, JSON) ---

// PubMedSource queries NCBI E-utilities: esearch for IDs, esummary for
// the paper details. Abstracts are not part of esummary, so PubMed
// records carry metadata only.
type PubMedSource struct {
	BaseURL string
	Client  *http.Client
}

func NewPubMedSource() *PubMedSource {
	return &PubMedSource{
		BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		Client:  http.DefaultClient,
	}
}

func (s *PubMedSource) Name() string { return "pubmed" }

type pubmedSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedSummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type pubmedSummary struct {
	UID     string `json:"uid"`
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (s *PubMedSource) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", fmt.Sprintf("%d", limit))
	params.Set("retmode", "json")

	body, err := fetchBody(ctx, s.Client, s.BaseURL+"/esearch.fcgi?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}

	var search pubmedSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}

	ids := search.ESearchResult.IDList
	if len(ids) == 0 {
		return nil, nil
	}

	params = url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")

	body, err = fetchBody(ctx, s.Client, s.BaseURL+"/esummary.fcgi?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("esummary: %w", err)
	}

	var summaries pubmedSummaryResponse
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("parsing esummary response: %w", err)
	}

	papers := make([]Paper, 0, len(ids))
	for _, id := range ids {
		raw, ok := summaries.Result[id]
		if !ok {
			continue
		}

		var summary pubmedSummary
		if err := json.Unmarshal(raw, &summary); err != nil {
			continue
		}

		authors := make([]string, 0, len(summary.Authors))
		for _, a := range summary.Authors {
			authors = append(authors, a.Name)
		}

		papers = append(papers, Paper{
			ID:        "pubmed:" + summary.UID,
			Title:     summary.Title,
			Authors:   authors,
			URL:       "https://pubmed.ncbi.nlm.nih.gov/" + summary.UID + "/",
			Published: summary.PubDate,
			Source:    s.Name(),
		})
	}

	return papers, nil
}

// RenderPaperList formats papers as a markdown document for terminal output
func RenderPaperList(papers []Paper) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Papers (%d)\n\n", len(papers)))
	for _, p := range papers {
		sb.WriteString(fmt.Sprintf("## %s\n\n", p.Title))
		if len(p.Authors) > 0 {
			sb.WriteString(fmt.Sprintf("*%s*\n\n", strings.Join(p.Authors, ", ")))
		}
		sb.WriteString(fmt.Sprintf("%s | %s | %s\n\n", p.Source, p.Published, p.URL))
		if p.Abstract != "" {
			sb.WriteString(p.Abstract + "\n\n")
		}
	}

	return sb.String()
}
