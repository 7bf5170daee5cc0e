package anomaly

import (
	"sort"
	"time"
)

type bucketKey struct {
	user string
	date string
	hour int
}

type bucketAccum struct {
	queries   map[string]struct{}
	objects   map[string]struct{}
	databases map[string]struct{}
	totalRows int64
}

// Aggregate groups access events into per (user, date, hour) activity
// buckets. Events older than windowDays relative to now are dropped.
// Buckets are only materialized for hours that saw activity; an absent
// bucket means "no activity", which keeps it out of baseline computation.
// Output is deterministic regardless of input order.
func Aggregate(events []AccessEvent, windowDays int, now time.Time) []ActivityBucket {
	cutoff := now.AddDate(0, 0, -windowDays)

	groups := make(map[bucketKey]*bucketAccum)
	for _, ev := range events {
		if ev.Timestamp.Before(cutoff) || ev.Timestamp.After(now) {
			continue
		}
		key := bucketKey{
			user: ev.User,
			date: ev.Timestamp.Format("2006-01-02"),
			hour: ev.Timestamp.Hour(),
		}
		acc, ok := groups[key]
		if !ok {
			acc = &bucketAccum{
				queries:   make(map[string]struct{}),
				objects:   make(map[string]struct{}),
				databases: make(map[string]struct{}),
			}
			groups[key] = acc
		}
		acc.queries[ev.QueryID] = struct{}{}
		if ev.Object != "" {
			acc.objects[ev.Object] = struct{}{}
		}
		if ev.Database != "" {
			acc.databases[ev.Database] = struct{}{}
		}
		acc.totalRows += ev.Rows
	}

	buckets := make([]ActivityBucket, 0, len(groups))
	for key, acc := range groups {
		buckets = append(buckets, ActivityBucket{
			User:              key.user,
			Date:              key.date,
			Hour:              key.hour,
			QueryCount:        len(acc.queries),
			ObjectsAccessed:   len(acc.objects),
			TotalRows:         acc.totalRows,
			DatabasesAccessed: len(acc.databases),
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].User != buckets[j].User {
			return buckets[i].User < buckets[j].User
		}
		if buckets[i].Date != buckets[j].Date {
			return buckets[i].Date < buckets[j].Date
		}
		return buckets[i].Hour < buckets[j].Hour
	})

	return buckets
}
