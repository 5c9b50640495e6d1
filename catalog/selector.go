package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/g3lasio/owlfenc/model"
	lru "github.com/hashicorp/golang-lru/v2"
)

// TieBreak decides between equally specific templates.
type TieBreak string

const (
	// TieBreakFirstDeclared prefers the template declared first in the catalog.
	TieBreakFirstDeclared TieBreak = "first_declared"
	// TieBreakLowestID prefers the lexically smallest template id.
	TieBreakLowestID TieBreak = "lowest_id"
)

// ParseTieBreak accepts the config spelling; empty means first_declared.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "", TieBreakFirstDeclared:
		return TieBreakFirstDeclared, nil
	case TieBreakLowestID:
		return TieBreakLowestID, nil
	}
	return "", fmt.Errorf("unknown tie break %q", s)
}

// Selector picks one template per (project type, complexity, jurisdiction).
// Selection is a pure function of the catalog and its inputs, so results are
// memoized.
type Selector struct {
	catalog  *Catalog
	tieBreak TieBreak
	cache    *lru.Cache[string, int]
}

// NewSelector builds a selector. cacheSize <= 0 disables memoization.
func NewSelector(c *Catalog, tieBreak TieBreak, cacheSize int) (*Selector, error) {
	if tieBreak == "" {
		tieBreak = TieBreakFirstDeclared
	}
	s := &Selector{catalog: c, tieBreak: tieBreak}
	if cacheSize > 0 {
		cache, err := lru.New[string, int](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create selection cache: %w", err)
		}
		s.cache = cache
	}
	if !c.HasDefault() {
		slog.Warn("template catalog has no jurisdiction default entry",
			"templates", c.Len(),
		)
	}
	return s, nil
}

func (s *Selector) Catalog() *Catalog { return s.catalog }

// Select returns the best template. It fails with model.ErrTemplateNotFound
// only when neither the exact jurisdiction nor the default entries have a
// template at or below the requested tier. An exact-jurisdiction template
// that does not match the project type loses to a default that does.
func (s *Selector) Select(projectType string, complexity model.Complexity, jurisdiction string) (model.ContractTemplate, error) {
	tier, ok := model.ParseComplexity(string(complexity))
	if !ok {
		return model.ContractTemplate{}, fmt.Errorf("%w: %q", model.ErrInvalidComplexity, complexity)
	}
	pt := NormalizeProjectType(projectType)
	jur := NormalizeJurisdiction(jurisdiction)

	key := pt + "|" + string(tier) + "|" + jur
	if s.cache != nil {
		if i, hit := s.cache.Get(key); hit {
			return cloneTemplate(s.catalog.templates[i]), nil
		}
	}

	i, found := s.selectIndex(pt, tier, jur)
	if !found {
		return model.ContractTemplate{}, fmt.Errorf("%w: project_type=%q complexity=%q jurisdiction=%q",
			model.ErrTemplateNotFound, projectType, tier, jurisdiction)
	}
	if s.cache != nil {
		s.cache.Add(key, i)
	}
	return cloneTemplate(s.catalog.templates[i]), nil
}

// selectIndex tries, in order: exact-jurisdiction templates whose tags match
// the project type, matching defaults, any default, and finally any
// exact-jurisdiction template. A template only matches when it carries the
// project type or the general tag.
func (s *Selector) selectIndex(pt string, tier model.Complexity, jur string) (int, bool) {
	var exact []int
	if jur != model.AnyJurisdiction {
		exact = s.byJurisdiction(jur)
	}
	defaults := s.byJurisdiction(model.AnyJurisdiction)

	for _, candidates := range [][]int{
		s.matching(exact, pt),
		s.matching(defaults, pt),
		defaults,
		exact,
	} {
		if i, ok := s.pick(candidates, pt, tier); ok {
			return i, true
		}
	}
	return 0, false
}

func (s *Selector) matching(candidates []int, pt string) []int {
	var out []int
	for _, i := range candidates {
		if specificity(s.catalog.templates[i], pt) > 0 {
			out = append(out, i)
		}
	}
	return out
}

func (s *Selector) byJurisdiction(jur string) []int {
	var out []int
	for i, t := range s.catalog.templates {
		if containsString(t.Jurisdictions, jur) {
			out = append(out, i)
		}
	}
	return out
}

// pick narrows candidates to the requested tier, stepping down one tier at a
// time, then ranks them by project type specificity.
func (s *Selector) pick(candidates []int, pt string, tier model.Complexity) (int, bool) {
	for rank := tier.Rank(); rank >= 0; rank-- {
		var atTier []int
		for _, i := range candidates {
			if s.catalog.templates[i].LegalComplexity.Rank() == rank {
				atTier = append(atTier, i)
			}
		}
		if len(atTier) > 0 {
			return s.best(atTier, pt), true
		}
	}
	return 0, false
}

func (s *Selector) best(candidates []int, pt string) int {
	best := candidates[0]
	bestScore := specificity(s.catalog.templates[best], pt)
	for _, i := range candidates[1:] {
		score := specificity(s.catalog.templates[i], pt)
		if score > bestScore || (score == bestScore && s.preferOnTie(i, best)) {
			best, bestScore = i, score
		}
	}
	return best
}

func (s *Selector) preferOnTie(i, current int) bool {
	if s.tieBreak == TieBreakLowestID {
		return s.catalog.templates[i].ID < s.catalog.templates[current].ID
	}
	return i < current
}

// specificity scores how well a template's tags match a project type: an
// exact tag beats the general tag, and fewer tags beat more.
func specificity(t model.ContractTemplate, pt string) int {
	if containsString(t.ProjectTypes, pt) {
		return 1000 - len(t.ProjectTypes)
	}
	if containsString(t.ProjectTypes, model.GeneralProjectType) {
		return 1
	}
	return 0
}
