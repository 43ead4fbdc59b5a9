package storage

import (
	"sort"
	"strings"

	"intervue/internal/models"
)

// FilterAndSort is the dashboard query: case-insensitive substring match on
// candidate name, then a stable sort by name or final score. Pure function of
// its inputs; the archive slice is never mutated.
func FilterAndSort(archive []models.ArchivedSession, search, sortBy, order string) []models.ArchivedSession {
	out := make([]models.ArchivedSession, 0, len(archive))

	needle := strings.ToLower(strings.TrimSpace(search))
	for _, a := range archive {
		if needle == "" || strings.Contains(strings.ToLower(a.CandidateName), needle) {
			out = append(out, a)
		}
	}

	asc := order != "desc"
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		if sortBy == "name" {
			less = strings.ToLower(out[i].CandidateName) < strings.ToLower(out[j].CandidateName)
		} else {
			less = out[i].FinalScore < out[j].FinalScore
		}
		if asc {
			return less
		}
		return !less && !equalKey(out[i], out[j], sortBy)
	})

	return out
}

func equalKey(a, b models.ArchivedSession, sortBy string) bool {
	if sortBy == "name" {
		return strings.EqualFold(a.CandidateName, b.CandidateName)
	}
	return a.FinalScore == b.FinalScore
}
