// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed fetches bibliographic metadata from the NCBI E-utilities
// API (ESearch, ESummary, EFetch). It is an external collaborator of the
// assembly core: its only job is turning PMIDs into typed Citation records
// for the citation plan.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/manuscript-engine/internal/httputil"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	esummaryBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
	efetchBase   = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// NCBI allows 3 requests/second anonymously and 10 with an API key.
const (
	anonymousRate = 3
	keyedRate     = 10
)

// Client is a rate-limited NCBI E-utilities client.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     types.PubMedConfig
}

// NewClient builds a Client from config, applying the NCBI rate limit that
// matches whether an API key is configured.
func NewClient(cfg types.PubMedConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	limit := rate.Limit(anonymousRate)
	if cfg.APIKey != "" {
		limit = rate.Limit(keyedRate)
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
	}
}

// get performs one rate-limited, retried GET against an E-utilities
// endpoint, appending the shared identification parameters.
func (c *Client) get(ctx context.Context, base string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("db", "pubmed")
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	params.Set("tool", "manuscript-engine")
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("E-utilities request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return resp, nil
}

// esearchResponse is the JSON shape of an ESearch result.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search runs an ESearch query sorted by relevance and returns the matching
// PMIDs, at most retmax of them.
func (c *Client) Search(ctx context.Context, term string, retmax int) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("empty search term")
	}
	if retmax <= 0 {
		retmax = 30
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("sort", "relevance")

	resp, err := c.get(ctx, esearchBase, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	return out.ESearchResult.IDList, nil
}

// esummaryItem is one document summary from ESummary JSON.
type esummaryItem struct {
	Title           string   `json:"title"`
	FullJournalName string   `json:"fulljournalname"`
	Source          string   `json:"source"`
	PubDate         string   `json:"pubdate"`
	Volume          string   `json:"volume"`
	Issue           string   `json:"issue"`
	Pages           string   `json:"pages"`
	ELocationID     string   `json:"elocationid"`
	PubType         []string `json:"pubtype"`
	Authors         []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// esummaryResponse keys each summary by PMID inside "result", alongside a
// "uids" list; raw messages skip the non-object uids entry.
type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

// FetchSummaries resolves PMIDs into Citation records via ESummary. PMIDs
// absent from the response are silently omitted, preserving input order for
// the rest. The DOI is taken from elocationid only when it looks like one.
func (c *Client) FetchSummaries(ctx context.Context, pmids []string) ([]types.Citation, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "json")

	resp, err := c.get(ctx, esummaryBase, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out esummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing ESummary response: %w", err)
	}

	var citations []types.Citation
	for _, pmid := range pmids {
		raw, ok := out.Result[pmid]
		if !ok {
			continue
		}
		var item esummaryItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		citations = append(citations, summaryToCitation(pmid, item))
	}
	return citations, nil
}

// summaryToCitation maps one ESummary item onto the Citation shape.
func summaryToCitation(pmid string, item esummaryItem) types.Citation {
	c := types.Citation{
		PMID:             pmid,
		Title:            strings.TrimRight(strings.TrimSpace(item.Title), "."),
		Journal:          item.FullJournalName,
		JournalISOAbbrev: item.Source,
		Volume:           item.Volume,
		Issue:            item.Issue,
		Pages:            item.Pages,
		PublicationTypes: item.PubType,
		URL:              fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid),
	}
	if c.Journal == "" {
		c.Journal = item.Source
	}
	for _, a := range item.Authors {
		if a.Name != "" {
			c.Authors = append(c.Authors, a.Name)
		}
	}
	// elocationid sometimes carries the DOI; only trust values that look
	// like one.
	if strings.HasPrefix(item.ELocationID, "10.") {
		c.DOI = item.ELocationID
	}
	if len(item.PubDate) >= 4 {
		if year, err := strconv.Atoi(item.PubDate[:4]); err == nil {
			c.Year = year
		}
	}
	return c
}

// EFetch XML structures, trimmed to the abstract path.
type efetchArticleSet struct {
	Articles []efetchArticle `xml:"PubmedArticle"`
}

type efetchArticle struct {
	PMID      string           `xml:"MedlineCitation>PMID"`
	Abstracts []efetchAbstract `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

type efetchAbstract struct {
	Label       string `xml:"Label,attr"`
	NlmCategory string `xml:"NlmCategory,attr"`
	Text        string `xml:",chardata"`
}

// FetchAbstracts retrieves abstracts for the given PMIDs via EFetch XML.
// Structured abstracts keep their labels as "LABEL: text" lines. PMIDs
// without an abstract are absent from the returned map.
func (c *Client) FetchAbstracts(ctx context.Context, pmids []string) (map[string]string, error) {
	if len(pmids) == 0 {
		return map[string]string{}, nil
	}

	params := url.Values{}
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	resp, err := c.get(ctx, efetchBase, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var set efetchArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing EFetch response: %w", err)
	}

	out := make(map[string]string)
	for _, art := range set.Articles {
		pmid := strings.TrimSpace(art.PMID)
		if pmid == "" {
			continue
		}
		var parts []string
		for _, a := range art.Abstracts {
			text := strings.TrimSpace(a.Text)
			if text == "" {
				continue
			}
			label := a.Label
			if label == "" {
				label = a.NlmCategory
			}
			if label != "" {
				parts = append(parts, label+": "+text)
			} else {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			out[pmid] = strings.Join(parts, "\n")
		}
	}
	return out, nil
}

// SuggestQuery describes a citation suggestion request built from the study
// question.
type SuggestQuery struct {
	Topic        string
	Intervention string
	Comparator   string
	Outcomes     string

	// IncludeAbstracts fetches abstracts for the suggested records.
	IncludeAbstracts bool
}

// pubTypeBias steers suggestions toward high-evidence publication types.
// Older classics are not hard-blocked; the date range below handles recency.
const pubTypeBias = "(randomized controlled trial[pt] OR systematic review[pt] OR guideline[pt] OR meta-analysis[pt])"

// Suggest searches PubMed for citation candidates matching the study
// question, biased toward high-evidence publication types and recent years,
// and returns them as Citation records ready for plan selection.
func (c *Client) Suggest(ctx context.Context, q SuggestQuery) ([]types.Citation, error) {
	term := buildSuggestTerm(q, c.recentYears())

	pmids, err := c.Search(ctx, term, c.cfg.MaxResults)
	if err != nil {
		return nil, err
	}
	citations, err := c.FetchSummaries(ctx, pmids)
	if err != nil {
		return nil, err
	}

	if q.IncludeAbstracts && len(citations) > 0 {
		ids := make([]string, 0, len(citations))
		for _, cit := range citations {
			if cit.PMID != "" {
				ids = append(ids, cit.PMID)
			}
		}
		abstracts, err := c.FetchAbstracts(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range citations {
			if abs, ok := abstracts[citations[i].PMID]; ok {
				citations[i].Abstract = abs
			}
		}
	}
	return citations, nil
}

func (c *Client) recentYears() int {
	if c.cfg.RecentYears > 0 {
		return c.cfg.RecentYears
	}
	return 5
}

// buildSuggestTerm assembles the ESearch term: ANDed parenthesized question
// parts, the publication-type bias, and a [dp] date range over the last
// recentYears years.
func buildSuggestTerm(q SuggestQuery, recentYears int) string {
	var core []string
	for _, p := range []string{q.Topic, q.Intervention, q.Comparator, q.Outcomes} {
		if strings.TrimSpace(p) != "" {
			core = append(core, "("+strings.TrimSpace(p)+")")
		}
	}

	term := pubTypeBias
	if len(core) > 0 {
		term = "(" + strings.Join(core, " AND ") + ") AND " + pubTypeBias
	}

	startYear := time.Now().UTC().Year() - recentYears
	return fmt.Sprintf("%s AND (%q[dp] : %q[dp])", term, strconv.Itoa(startYear), "3000")
}
