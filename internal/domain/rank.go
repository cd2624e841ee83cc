package domain

import (
	"sort"
	"time"
)

// Rank orders alerts descending by severity. The sort is stable so that ties
// keep their input order, which downstream dedup relies on.
func Rank(alerts []Alert) []Alert {
	ranked := make([]Alert, len(alerts))
	copy(ranked, alerts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Severity.weight() > ranked[j].Severity.weight()
	})
	return ranked
}

// Deduplicate removes alerts sharing an (event, start) key, keeping the first
// occurrence. Run after Rank so the highest-severity instance of a duplicated
// key survives. Source is deliberately not part of the key: the same warning
// reported by two sources is one warning.
func Deduplicate(alerts []Alert) []Alert {
	seen := make(map[string]struct{}, len(alerts))
	unique := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		key := a.Event + "|" + a.Start.Format("2006-01-02T15:04:05")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}

// Correlate flags each forecast day that carries an active alert: HasWarning
// is true iff some alert starts on the same local calendar date. Time of day
// and offset are ignored beyond the local date.
func Correlate(alerts []Alert, days []ForecastDay) []ForecastDay {
	flagged := make([]ForecastDay, len(days))
	copy(flagged, days)
	for i := range flagged {
		flagged[i].HasWarning = false
		for _, a := range alerts {
			if a.Start.IsZero() {
				continue
			}
			if sameLocalDate(a.Start, flagged[i].Date) {
				flagged[i].HasWarning = true
				break
			}
		}
	}
	return flagged
}

func sameLocalDate(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
