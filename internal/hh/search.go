package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/sevigo/apply-warden/internal/core"
)

// searchStatePattern extracts the JSON state embedded in the search page.
var searchStatePattern = regexp.MustCompile(`{"topLevelSite".*"action":"POP"}}`)

type searchState struct {
	VacancySearchResult struct {
		Vacancies []vacancy `json:"vacancies"`
		Paging    *struct {
			LastPage struct {
				Page int `json:"page"`
			} `json:"lastPage"`
		} `json:"paging"`
	} `json:"vacancySearchResult"`
}

type vacancy struct {
	VacancyID json.Number `json:"vacancyId"`
	Name      string      `json:"name"`
}

// PageCount returns the number of result pages for query, the largest
// count across the experience filters.
func (c *Client) PageCount(ctx context.Context, query string, filters core.Filters) (int, error) {
	count := 0
	for _, exp := range experiences(filters) {
		state, err := c.search(ctx, query, exp, 1)
		if err != nil {
			return 0, err
		}
		n := 1
		if p := state.VacancySearchResult.Paging; p != nil {
			n = p.LastPage.Page + 1
		}
		count = max(count, n)
	}
	return count, nil
}

// Page returns the postings of one zero-based result page, merged across
// the experience filters.
func (c *Client) Page(ctx context.Context, query string, page int, filters core.Filters) ([]core.Posting, error) {
	var postings []core.Posting
	seen := make(map[string]struct{})
	for _, exp := range experiences(filters) {
		state, err := c.search(ctx, query, exp, page)
		if err != nil {
			return nil, err
		}
		for _, v := range state.VacancySearchResult.Vacancies {
			id := v.VacancyID.String()
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			postings = append(postings, core.Posting{ID: id, Title: v.Name})
		}
	}
	return postings, nil
}

// experiences yields one empty filter when none is configured so the search
// runs unfiltered.
func experiences(filters core.Filters) []string {
	if len(filters.Experience) == 0 {
		return []string{""}
	}
	return filters.Experience
}

func (c *Client) search(ctx context.Context, query, experience string, page int) (*searchState, error) {
	version, err := c.WebsiteVersion(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("text", query)
	params.Set("salary", "")
	params.Set("ored_clusters", "true")
	if experience != "" {
		params.Set("experience", experience)
	}
	params.Set("page", strconv.Itoa(page))

	req, err := c.newRequest(ctx, http.MethodGet, "/search/vacancy?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("X-Static-Version", version)
	req.Header.Set("X-Xsrftoken", "1")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned %d", ErrUnexpectedStatus, status)
	}

	raw := searchStatePattern.Find(body)
	if raw == nil {
		return nil, ErrNoSearchState
	}
	var state searchState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to parse search state: %w", err)
	}
	return &state, nil
}
