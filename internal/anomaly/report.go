package anomaly

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// HighRiskKindCount is the number of distinct anomaly kinds that flags a
// user as high risk.
const HighRiskKindCount = 3

// Summarize rolls a record set up into a Report: per-kind totals, distinct
// affected users, per-user distinct kinds, and the high-risk user list.
// Purely derived; it never re-triggers classification.
func Summarize(records []Record) *Report {
	report := &Report{
		ID:           uuid.New(),
		GeneratedAt:  time.Now().UTC(),
		TotalRecords: len(records),
		KindCounts:   make(map[Kind]int),
		UserKinds:    make(map[string][]Kind),
	}

	seen := make(map[string]map[Kind]struct{})
	for _, r := range records {
		report.KindCounts[r.Kind]++
		if seen[r.User] == nil {
			seen[r.User] = make(map[Kind]struct{})
		}
		if _, dup := seen[r.User][r.Kind]; !dup {
			seen[r.User][r.Kind] = struct{}{}
			report.UserKinds[r.User] = append(report.UserKinds[r.User], r.Kind)
		}
	}

	report.AffectedUsers = len(seen)
	for user, kinds := range report.UserKinds {
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		if len(kinds) >= HighRiskKindCount {
			report.HighRiskUsers = append(report.HighRiskUsers, user)
		}
	}
	sort.Strings(report.HighRiskUsers)

	return report
}
