package schedule

import (
	"github.com/ParallelMatter/Pillo-sub000/internal/reference"
	"github.com/google/uuid"
)

const minSpacing = 2 * 3600

type conflict struct {
	slot        int
	interaction reference.Interaction
}

// resolveConflicts делает один проход: каждый конфликт, найденный в исходном
// распределении, исправляется не более одного раза. Новые конфликты, возникшие
// от переноса, не ищутся.
func (e *Engine) resolveConflicts(buckets []bucket, profiles map[uuid.UUID]profile) {
	var refs []string
	seen := make(map[string]bool)
	for _, b := range buckets {
		for _, id := range b.ids {
			r := profiles[id].refID()
			if r != "" && !seen[r] {
				seen[r] = true
				refs = append(refs, r)
			}
		}
	}
	interactions := e.Index.InteractionsAmong(refs)
	if len(interactions) == 0 {
		return
	}

	var found []conflict
	for i, b := range buckets {
		present := refSet(b, profiles)
		for _, in := range interactions {
			if present[in.A] && present[in.B] {
				found = append(found, conflict{slot: i, interaction: in})
			}
		}
	}

	for _, c := range found {
		from := &buckets[c.slot]
		present := refSet(*from, profiles)
		if !present[c.interaction.A] || !present[c.interaction.B] {
			continue
		}
		to := e.alternativeSlot(buckets, c.slot, c.interaction.B, profiles)
		if to < 0 {
			continue
		}
		var keep, moved []uuid.UUID
		for _, id := range from.ids {
			if profiles[id].refID() == c.interaction.B {
				moved = append(moved, id)
			} else {
				keep = append(keep, id)
			}
		}
		from.ids = keep
		buckets[to].ids = append(buckets[to].ids, moved...)
	}
}

// alternativeSlot ищет слот не ближе двух часов: сначала без новых взаимодействий,
// иначе первый подходящий по расстоянию.
func (e *Engine) alternativeSlot(buckets []bucket, from int, refID string, profiles map[uuid.UUID]profile) int {
	fallback := -1
	origin := buckets[from].candidate.Seconds
	for i, b := range buckets {
		if i == from || distance(b.candidate.Seconds, origin) < minSpacing {
			continue
		}
		if fallback < 0 {
			fallback = i
		}
		if !e.clashes(b, refID, profiles) {
			return i
		}
	}
	return fallback
}

func (e *Engine) clashes(b bucket, refID string, profiles map[uuid.UUID]profile) bool {
	for _, id := range b.ids {
		if _, ok := e.Index.InteractionBetween(refID, profiles[id].refID()); ok {
			return true
		}
	}
	return false
}

func refSet(b bucket, profiles map[uuid.UUID]profile) map[string]bool {
	set := make(map[string]bool, len(b.ids))
	for _, id := range b.ids {
		if r := profiles[id].refID(); r != "" {
			set[r] = true
		}
	}
	return set
}
