package reference

import (
	"strings"
)

// Index: read-only справочник; после создания безопасен для конкурентного чтения.
type Index struct {
	refs         []Reference
	byID         map[string]int
	byName       map[string]int
	interactions []Interaction
	synergies    []Synergy
}

func NewIndex(b Bundle) *Index {
	x := &Index{
		refs:         make([]Reference, 0, len(b.Supplements)),
		byID:         make(map[string]int, len(b.Supplements)),
		byName:       make(map[string]int),
		interactions: append([]Interaction(nil), b.Interactions...),
		synergies:    append([]Synergy(nil), b.Synergies...),
	}
	for _, r := range b.Supplements {
		if r.ID == "" {
			continue
		}
		if _, dup := x.byID[r.ID]; dup {
			continue
		}
		i := len(x.refs)
		x.refs = append(x.refs, r)
		x.byID[r.ID] = i
		for _, n := range r.Names {
			key := normalize(n)
			if key == "" {
				continue
			}
			// первое вхождение имени выигрывает
			if _, taken := x.byName[key]; !taken {
				x.byName[key] = i
			}
		}
	}
	return x
}

// Empty возвращает пустой справочник (деградированный режим).
func Empty() *Index {
	return NewIndex(Bundle{})
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.refs)
}

func (x *Index) All() []Reference {
	if x == nil {
		return nil
	}
	return append([]Reference(nil), x.refs...)
}

func (x *Index) ByID(id string) (Reference, bool) {
	if x == nil || id == "" {
		return Reference{}, false
	}
	i, ok := x.byID[id]
	if !ok {
		return Reference{}, false
	}
	return x.refs[i], true
}

// ByName ищет по любому из альтернативных имён без учёта регистра.
func (x *Index) ByName(name string) (Reference, bool) {
	if x == nil {
		return Reference{}, false
	}
	i, ok := x.byName[normalize(name)]
	if !ok {
		return Reference{}, false
	}
	return x.refs[i], true
}

func (x *Index) ByGoal(goal string) []Reference {
	if x == nil {
		return nil
	}
	var out []Reference
	for _, r := range x.refs {
		if r.HasGoal(goal) {
			out = append(out, r)
		}
	}
	return out
}

func (x *Index) Interactions() []Interaction {
	if x == nil {
		return nil
	}
	return append([]Interaction(nil), x.interactions...)
}

func (x *Index) Synergies() []Synergy {
	if x == nil {
		return nil
	}
	return append([]Synergy(nil), x.synergies...)
}

// InteractionsAmong возвращает взаимодействия, оба участника которых есть в ids, в порядке справочника.
func (x *Index) InteractionsAmong(ids []string) []Interaction {
	if x == nil || len(ids) < 2 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	var out []Interaction
	for _, in := range x.interactions {
		if in.A == in.B {
			continue
		}
		_, okA := set[in.A]
		_, okB := set[in.B]
		if okA && okB {
			out = append(out, in)
		}
	}
	return out
}

func (x *Index) InteractionBetween(a, b string) (Interaction, bool) {
	if x == nil || a == "" || b == "" || a == b {
		return Interaction{}, false
	}
	for _, in := range x.interactions {
		if in.Matches(a, b) {
			return in, true
		}
	}
	return Interaction{}, false
}

func (x *Index) SynergiesFor(id string) []Synergy {
	if x == nil {
		return nil
	}
	var out []Synergy
	for _, s := range x.synergies {
		if s.Involves(id) {
			out = append(out, s)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
