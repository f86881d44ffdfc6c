package reference

import (
	"sort"
	"strings"
)

type MatchType int

const (
	MatchExact MatchType = iota
	MatchPartialName
	MatchKeyword
	MatchGoal
)

func (m MatchType) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPartialName:
		return "name"
	case MatchKeyword:
		return "keyword"
	case MatchGoal:
		return "goal"
	default:
		return "unknown"
	}
}

type SearchResult struct {
	Reference    Reference
	Match        MatchType
	MatchedTerms []string
}

// SearchWithContext ищет по справочнику: точное имя > часть имени > ключевое слово > цель.
// Каждая добавка попадает в выдачу один раз, по первому сработавшему уровню.
func (x *Index) SearchWithContext(query string) []SearchResult {
	if x == nil {
		return nil
	}
	q := normalize(query)
	if q == "" {
		out := make([]SearchResult, len(x.refs))
		for i, r := range x.refs {
			out[i] = SearchResult{Reference: r, Match: MatchExact}
		}
		return out
	}

	var out []SearchResult
	for _, r := range x.refs {
		if res, ok := matchReference(r, q); ok {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Match < out[j].Match
	})
	return out
}

func (x *Index) Search(query string) []Reference {
	results := x.SearchWithContext(query)
	out := make([]Reference, len(results))
	for i, r := range results {
		out[i] = r.Reference
	}
	return out
}

func matchReference(r Reference, q string) (SearchResult, bool) {
	for _, n := range r.Names {
		if normalize(n) == q {
			return SearchResult{Reference: r, Match: MatchExact, MatchedTerms: []string{n}}, true
		}
	}
	if terms := containing(r.Names, q); len(terms) > 0 {
		return SearchResult{Reference: r, Match: MatchPartialName, MatchedTerms: terms}, true
	}
	if terms := containing(r.Keywords, q); len(terms) > 0 {
		return SearchResult{Reference: r, Match: MatchKeyword, MatchedTerms: terms}, true
	}
	if terms := containing(r.Goals, q); len(terms) > 0 {
		return SearchResult{Reference: r, Match: MatchGoal, MatchedTerms: terms}, true
	}
	return SearchResult{}, false
}

func containing(values []string, q string) []string {
	var out []string
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			out = append(out, v)
		}
	}
	return out
}
