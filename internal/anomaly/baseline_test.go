package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBaselines_MeanAndPopulationStddev(t *testing.T) {
	buckets := []ActivityBucket{
		{User: "alice", Date: "2024-03-07", Hour: 9, QueryCount: 2, ObjectsAccessed: 4, TotalRows: 100},
		{User: "alice", Date: "2024-03-08", Hour: 9, QueryCount: 3, ObjectsAccessed: 6, TotalRows: 200},
		{User: "alice", Date: "2024-03-09", Hour: 9, QueryCount: 2, ObjectsAccessed: 2, TotalRows: 300},
	}

	baselines := ComputeBaselines(buckets)
	require.Contains(t, baselines, "alice")

	b := baselines["alice"]
	assert.InDelta(t, 2.3333, b.AvgQueryCount, 0.001)
	assert.InDelta(t, 0.4714, b.StddevQueryCount, 0.001)
	assert.InDelta(t, 4.0, b.AvgObjectsAccessed, 0.001)
	assert.InDelta(t, 200.0, b.AvgTotalRows, 0.001)
	assert.Equal(t, 3, b.BucketCount)
}

func TestComputeBaselines_SingleBucketStddevZero(t *testing.T) {
	buckets := []ActivityBucket{
		{User: "carol", Date: "2024-03-09", Hour: 10, QueryCount: 42, TotalRows: 9000},
	}

	baselines := ComputeBaselines(buckets)
	require.Contains(t, baselines, "carol")

	b := baselines["carol"]
	assert.Equal(t, 42.0, b.AvgQueryCount)
	assert.Zero(t, b.StddevQueryCount)
}

func TestComputeBaselines_NoCrossUserSmoothing(t *testing.T) {
	buckets := []ActivityBucket{
		{User: "alice", QueryCount: 1},
		{User: "bob", QueryCount: 1000},
	}

	baselines := ComputeBaselines(buckets)
	assert.Equal(t, 1.0, baselines["alice"].AvgQueryCount)
	assert.Equal(t, 1000.0, baselines["bob"].AvgQueryCount)
}

func TestComputeBaselines_EmptyInput(t *testing.T) {
	assert.Empty(t, ComputeBaselines(nil))
}
