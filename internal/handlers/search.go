package handlers

import (
	"fmt"
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/reference"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

const maxSearchResults = 5

var matchLabels = map[reference.MatchType]string{
	reference.MatchExact:       "точное совпадение",
	reference.MatchPartialName: "по названию",
	reference.MatchKeyword:     "по ключевому слову",
	reference.MatchGoal:        "по цели",
}

func searchText(results []reference.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		if i == maxSearchResults {
			fmt.Fprintf(&b, "\n…и ещё %d", len(results)-maxSearchResults)
			break
		}
		ref := r.Reference
		fmt.Fprintf(&b, "💊 %s (%s)\n", ref.DisplayName(), matchLabels[r.Match])
		if ref.Benefits != "" {
			b.WriteString(ref.Benefits + "\n")
		}
		if ref.Dosage.Max > 0 {
			fmt.Fprintf(&b, "Дозировка: %g–%g %s\n", ref.Dosage.Min, ref.Dosage.Max, ref.Dosage.Unit)
		}
		if ref.AbsorptionNotes != "" {
			b.WriteString("💡 " + ref.AbsorptionNotes + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// /search <запрос>: поиск по справочнику
func SearchHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		query := strings.TrimSpace(c.Message().Payload)
		if query == "" {
			return c.Send("Что ищем? Например: /search сон")
		}
		results := svc.Search(query)
		log.Debug("Search", zap.String("query", query), zap.Int("results", len(results)))
		if len(results) == 0 {
			return c.Send("Ничего не нашёл 🤷")
		}
		return c.Send(searchText(results))
	}
}
