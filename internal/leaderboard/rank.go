// Package leaderboard ranks identities by a weighted blend of profit, volume and rounds.
package leaderboard

import (
	"cmp"
	"slices"

	"github.com/solspace/solspace-backend/internal/store"
)

// Score weights, summing to 1
const (
	PROFIT_WEIGHT = 0.5
	VOLUME_WEIGHT = 0.3
	ROUNDS_WEIGHT = 0.2
)

// Entry is one ranked identity
type Entry struct {
	Rank        int     `json:"rank"`
	Identity    string  `json:"identity"`
	TotalProfit float64 `json:"total_profit"`
	TotalVolume float64 `json:"total_volume"`
	Rounds      int64   `json:"rounds"`
	Score       float64 `json:"score"`
	Balance     int64   `json:"balance"`
}

// Rank scores every aggregate against the maxima of the set and returns the top limit entries.
// Each factor is normalised by its maximum, a zero maximum contributes nothing.
// Ties on score are broken by identity ascending. A limit of zero or less keeps every entry.
func Rank(aggs []store.GameEventAggregate, limit int) []Entry {
	if len(aggs) == 0 {
		return []Entry{}
	}

	var maxProfit, maxVolume float64
	var maxRounds int64
	for _, a := range aggs {
		maxProfit = max(maxProfit, a.TotalProfit)
		maxVolume = max(maxVolume, a.TotalVolume)
		maxRounds = max(maxRounds, a.Rounds)
	}

	entries := make([]Entry, 0, len(aggs))
	for _, a := range aggs {
		entries = append(entries, Entry{
			Identity:    a.Identity,
			TotalProfit: a.TotalProfit,
			TotalVolume: a.TotalVolume,
			Rounds:      a.Rounds,
			Score: PROFIT_WEIGHT*ratio(max(a.TotalProfit, 0), maxProfit) +
				VOLUME_WEIGHT*ratio(a.TotalVolume, maxVolume) +
				ROUNDS_WEIGHT*ratio(float64(a.Rounds), float64(maxRounds)),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Identity, b.Identity)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

func ratio(v, maximum float64) float64 {
	if maximum <= 0 {
		return 0
	}
	return v / maximum
}
