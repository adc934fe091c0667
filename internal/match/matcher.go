// Package match proposes CCN links for communities that lack one. Output is
// advisory: suggestions go to a CSV for human review and are never written
// back to the store.
package match

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/villagecare/cms-sync/pkg/models"
)

// Candidate is an external provider record eligible for matching.
type Candidate struct {
	CCN     string
	Name    string
	Address string
	City    string
}

// Suggestion is one ranked match proposal.
type Suggestion struct {
	CommunityID      string
	CommunityName    string
	CommunityAddress string
	CCN              string
	ProviderName     string
	ProviderAddress  string
	Score            float64
	Reason           string
}

// Matcher scores community/provider pairs. The weights and threshold are
// tunable; the defaults have no empirical derivation beyond working well on
// the initial Ohio dataset.
type Matcher struct {
	Threshold     float64
	NameWeight    float64
	AddressWeight float64
}

func NewMatcher() *Matcher {
	return &Matcher{
		Threshold:     0.6,
		NameWeight:    0.6,
		AddressWeight: 0.4,
	}
}

// Suggest proposes candidates for every unlinked community, restricted to
// providers in the same city, sorted by descending score. Only scores above
// the threshold are surfaced.
func (m *Matcher) Suggest(communities []*models.Community, providers []Candidate) []Suggestion {
	var out []Suggestion
	for _, c := range communities {
		if c.CCN != nil && *c.CCN != "" {
			continue
		}
		for _, p := range providers {
			if !strings.EqualFold(strings.TrimSpace(c.City), strings.TrimSpace(p.City)) {
				continue
			}
			score, reason := m.score(c, p)
			if score <= m.Threshold {
				continue
			}
			out = append(out, Suggestion{
				CommunityID:      c.ID.String(),
				CommunityName:    c.Name,
				CommunityAddress: c.Address,
				CCN:              p.CCN,
				ProviderName:     p.Name,
				ProviderAddress:  p.Address,
				Score:            score,
				Reason:           reason,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (m *Matcher) score(c *models.Community, p Candidate) (float64, string) {
	nameSim := Similarity(c.Name, p.Name)

	addrA := normalizeForMatch(c.Address)
	addrB := normalizeForMatch(p.Address)
	if addrA == "" || addrB == "" {
		return nameSim, fmt.Sprintf("name %.2f (no address)", nameSim)
	}

	addrSim := Similarity(c.Address, p.Address)
	combined := m.NameWeight*nameSim + m.AddressWeight*addrSim
	return combined, fmt.Sprintf("name %.2f, address %.2f", nameSim, addrSim)
}

// Similarity is normalized edit-distance similarity:
// 1 - levenshtein / max(len(a), len(b)), computed after normalization.
// Identical strings score 1.0, fully disjoint equal-length strings 0.0.
func Similarity(a, b string) float64 {
	na := normalizeForMatch(a)
	nb := normalizeForMatch(b)
	if na == "" && nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	dist := levenshtein.ComputeDistance(na, nb)
	sim := 1 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}

// Corporate suffixes carry no matching signal; street-type words are
// collapsed to their postal abbreviations.
var dropWords = map[string]bool{
	"inc": true, "incorporated": true, "llc": true, "ltd": true,
	"corp": true, "corporation": true, "co": true, "the": true,
}

var replaceWords = map[string]string{
	"street": "st", "avenue": "ave", "road": "rd", "drive": "dr",
	"boulevard": "blvd", "lane": "ln", "parkway": "pkwy", "court": "ct",
}

func normalizeForMatch(s string) string {
	words := strings.Fields(strings.ToLower(s))
	var kept []string
	for _, w := range words {
		w = stripNonAlnum(w)
		if w == "" || dropWords[w] {
			continue
		}
		if repl, ok := replaceWords[w]; ok {
			w = repl
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, "")
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var csvHeader = []string{
	"community_id", "community_name", "community_address",
	"suggested_ccn", "provider_name", "provider_address",
	"score", "reason",
}

// WriteCSV renders suggestions for manual review.
func WriteCSV(w io.Writer, suggestions []Suggestion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range suggestions {
		row := []string{
			s.CommunityID, s.CommunityName, s.CommunityAddress,
			s.CCN, s.ProviderName, s.ProviderAddress,
			fmt.Sprintf("%.3f", s.Score), s.Reason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
