package anomaly

import (
	"sort"
	"time"
)

// Unusual-hours boundaries, fixed regardless of sensitivity.
const (
	earliestNormalHour = 6
	latestNormalHour   = 22
)

// bucketRule is one classification predicate. Rules are evaluated in
// order; the first match wins and a bucket yields at most one record.
type bucketRule struct {
	kind  Kind
	match func(b ActivityBucket, base UserBaseline, p Profile) bool
}

var bucketRules = []bucketRule{
	{
		kind: KindUnusualHours,
		match: func(b ActivityBucket, _ UserBaseline, _ Profile) bool {
			return b.Hour < earliestNormalHour || b.Hour > latestNormalHour
		},
	},
	{
		kind: KindHighQueryVolume,
		match: func(b ActivityBucket, base UserBaseline, p Profile) bool {
			return float64(b.QueryCount) > base.AvgQueryCount+p.VolumeMultiplier*base.StddevQueryCount
		},
	},
	{
		kind: KindHighDataVolume,
		match: func(b ActivityBucket, base UserBaseline, p Profile) bool {
			return float64(b.TotalRows) > base.AvgTotalRows*p.VolumeMultiplier
		},
	},
	{
		kind: KindMultipleDatabaseAccess,
		match: func(b ActivityBucket, _ UserBaseline, _ Profile) bool {
			return b.DatabasesAccessed > 3
		},
	},
}

// Classify evaluates every bucket against its user's baseline and the
// profile thresholds, then appends new-object access records. Buckets for
// users without a baseline are skipped, not defaulted. New-object records
// are additive: the same activity can produce both a bucket-level record
// and a new-object record.
//
// Results are ordered by date descending, then user ascending; the sort is
// stable so equal keys keep evaluation order.
func Classify(buckets []ActivityBucket, baselines map[string]UserBaseline, p Profile, newObjects []NewObjectAccess) []Record {
	var records []Record

	for _, b := range buckets {
		base, ok := baselines[b.User]
		if !ok {
			continue
		}
		for _, rule := range bucketRules {
			if !rule.match(b, base, p) {
				continue
			}
			records = append(records, Record{
				User:              b.User,
				Date:              b.Date,
				Hour:              b.Hour,
				Kind:              rule.kind,
				QueryCount:        b.QueryCount,
				TotalRows:         b.TotalRows,
				DatabasesAccessed: b.DatabasesAccessed,
			})
			break
		}
	}

	for _, na := range newObjects {
		if !withinGraceWindow(na, p) {
			continue
		}
		records = append(records, Record{
			User:   na.User,
			Date:   na.AccessTime.Format("2006-01-02"),
			Hour:   na.AccessTime.Hour(),
			Kind:   KindNewObjectAccess,
			Object: na.Object,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].User < records[j].User
	})

	return records
}

// withinGraceWindow reports whether an access touched an object recently
// enough to count as new-object access. Both bounds are strict on the
// upper edge: an access exactly HourThreshold hours after creation is
// outside the window.
func withinGraceWindow(na NewObjectAccess, p Profile) bool {
	if na.AccessTime.Before(na.ObjectCreated) {
		return false
	}
	age := na.AccessTime.Sub(na.ObjectCreated)
	if age >= time.Duration(p.NewObjectDays)*24*time.Hour {
		return false
	}
	return age < time.Duration(p.HourThreshold)*time.Hour
}
