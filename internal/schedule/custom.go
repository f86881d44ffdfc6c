package schedule

import (
	"fmt"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
)

// groupCustom собирает добавки с фиксированным временем в слоты по паре (время, повторение).
// Такие слоты всегда "между приёмами пищи".
func groupCustom(supplements []models.Supplement) ([]bucket, error) {
	var out []bucket
	index := make(map[string]int)
	for _, s := range supplements {
		sec, err := models.ParseClock(*s.CustomTime)
		if err != nil {
			return nil, fmt.Errorf("supplement %q: %w", s.Name, err)
		}
		rec := s.CustomRecurrence
		if rec.Kind == "" {
			rec = models.Daily()
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("supplement %q: %w", s.Name, err)
		}
		key := models.FormatClock(sec) + "|" + rec.Key()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, bucket{
				candidate:  newCandidate(sec, models.ContextBetweenMeals),
				recurrence: rec,
			})
		}
		out[i].ids = append(out[i].ids, s.ID)
	}
	return out, nil
}
