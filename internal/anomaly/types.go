package anomaly

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies an anomaly record.
type Kind string

const (
	KindUnusualHours           Kind = "unusual_hours"
	KindHighQueryVolume        Kind = "high_query_volume"
	KindHighDataVolume         Kind = "high_data_volume"
	KindMultipleDatabaseAccess Kind = "multiple_database_access"
	KindNewObjectAccess        Kind = "new_object_access"
)

// AccessEvent is one row of the warehouse access history. Read-only input;
// ordering is irrelevant, aggregation normalizes it away.
type AccessEvent struct {
	User      string
	QueryID   string
	Timestamp time.Time
	Object    string
	Rows      int64
	Database  string
}

// ActivityBucket aggregates one user's activity within a single hour of a
// single calendar day. Buckets only exist for hours with observed activity.
type ActivityBucket struct {
	User              string
	Date              string // YYYY-MM-DD
	Hour              int    // 0-23
	QueryCount        int
	ObjectsAccessed   int
	TotalRows         int64
	DatabasesAccessed int
}

// UserBaseline is the per-user statistical reference computed over that
// user's own buckets. StddevQueryCount is 0 for users with a single bucket.
type UserBaseline struct {
	User               string
	AvgQueryCount      float64
	StddevQueryCount   float64
	AvgObjectsAccessed float64
	AvgTotalRows       float64
	BucketCount        int
}

// NewObjectAccess pairs an access with the creation time of the object it
// touched, for the grace-window check.
type NewObjectAccess struct {
	User          string
	Object        string
	AccessTime    time.Time
	ObjectCreated time.Time
}

// Record is a single detected anomaly. Ephemeral; lives only for the
// duration of one analysis run.
type Record struct {
	User              string `json:"user"`
	Date              string `json:"date"`
	Hour              int    `json:"hour"`
	Kind              Kind   `json:"kind"`
	QueryCount        int    `json:"query_count,omitempty"`
	TotalRows         int64  `json:"total_rows,omitempty"`
	DatabasesAccessed int    `json:"databases_accessed,omitempty"`
	Object            string `json:"object,omitempty"`
}

// Report summarizes one classification run.
type Report struct {
	ID            uuid.UUID         `json:"id"`
	GeneratedAt   time.Time         `json:"generated_at"`
	WindowDays    int               `json:"window_days"`
	Sensitivity   string            `json:"sensitivity"`
	TotalRecords  int               `json:"total_records"`
	KindCounts    map[Kind]int      `json:"kind_counts"`
	AffectedUsers int               `json:"affected_users"`
	UserKinds     map[string][]Kind `json:"user_kinds"`
	HighRiskUsers []string          `json:"high_risk_users"`
}
