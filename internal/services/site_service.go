package services

import (
	"github.com/sahilm/fuzzy"
)

// SiteMatch is one blocked domain matched by a search.
type SiteMatch struct {
	Domain string
	// Position is the index in the configured list, which is also the
	// order lines are written to the host file.
	Position int
	// MatchedIndexes are the matched byte offsets in Domain.
	MatchedIndexes []int
}

// SiteService searches the configured blocked domains.
type SiteService struct {
	domains []string
}

// NewSiteService creates a site service over domains.
func NewSiteService(domains []string) *SiteService {
	return &SiteService{domains: append([]string(nil), domains...)}
}

// Search returns domains fuzzy-matching query, best match first. An empty
// query returns every domain in configured order.
func (s *SiteService) Search(query string) []SiteMatch {
	if query == "" {
		matches := make([]SiteMatch, len(s.domains))
		for i, d := range s.domains {
			matches[i] = SiteMatch{Domain: d, Position: i}
		}
		return matches
	}

	results := fuzzy.Find(query, s.domains)
	matches := make([]SiteMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, SiteMatch{
			Domain:         r.Str,
			Position:       r.Index,
			MatchedIndexes: r.MatchedIndexes,
		})
	}
	return matches
}
