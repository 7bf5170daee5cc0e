package anomaly

import "math"

// ComputeBaselines derives each user's behavioral baseline from that
// user's own buckets. No cross-user smoothing. Stddev is the population
// standard deviation of the hourly query counts; a user with a single
// bucket gets stddev 0, which makes the deviation rule a strict
// excess-over-mean test for that user.
func ComputeBaselines(buckets []ActivityBucket) map[string]UserBaseline {
	byUser := make(map[string][]ActivityBucket)
	for _, b := range buckets {
		byUser[b.User] = append(byUser[b.User], b)
	}

	baselines := make(map[string]UserBaseline, len(byUser))
	for user, bs := range byUser {
		n := float64(len(bs))

		var sumQueries, sumObjects, sumRows float64
		for _, b := range bs {
			sumQueries += float64(b.QueryCount)
			sumObjects += float64(b.ObjectsAccessed)
			sumRows += float64(b.TotalRows)
		}
		avgQueries := sumQueries / n

		var variance float64
		for _, b := range bs {
			d := float64(b.QueryCount) - avgQueries
			variance += d * d
		}
		variance /= n

		baselines[user] = UserBaseline{
			User:               user,
			AvgQueryCount:      avgQueries,
			StddevQueryCount:   math.Sqrt(variance),
			AvgObjectsAccessed: sumObjects / n,
			AvgTotalRows:       sumRows / n,
			BucketCount:        len(bs),
		}
	}

	return baselines
}
