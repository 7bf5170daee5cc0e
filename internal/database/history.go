package database

import (
	"context"
	"fmt"

	"github.com/FairForge/lakeguard/internal/anomaly"
)

// AccessEvents loads the trailing windowDays of access history. The day
// window is a trusted internal integer and may be templated; everything
// caller-controlled goes through placeholders.
func (w *Warehouse) AccessEvents(ctx context.Context, windowDays int) ([]anomaly.AccessEvent, error) {
	query := fmt.Sprintf(`
		SELECT user_name, query_id, query_start_time,
		       COALESCE(object_name, ''), COALESCE(rows_produced, 0),
		       COALESCE(database_name, '')
		FROM access_history
		WHERE query_start_time >= NOW() - INTERVAL '%d days'`, windowDays)

	rows, cancel, err := w.queryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = rows.Close() }()

	var events []anomaly.AccessEvent
	for rows.Next() {
		var ev anomaly.AccessEvent
		if err := rows.Scan(&ev.User, &ev.QueryID, &ev.Timestamp, &ev.Object, &ev.Rows, &ev.Database); err != nil {
			return nil, fmt.Errorf("scan access event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// NewObjectAccesses joins access history against object creation times,
// returning accesses to objects created within newObjectDays. The grace
// window itself is applied by the classifier.
func (w *Warehouse) NewObjectAccesses(ctx context.Context, windowDays, newObjectDays int) ([]anomaly.NewObjectAccess, error) {
	query := fmt.Sprintf(`
		SELECT ah.user_name, ah.object_name, ah.query_start_time, o.created_at
		FROM access_history ah
		JOIN objects o ON ah.object_name = o.qualified_name
		WHERE ah.query_start_time >= NOW() - INTERVAL '%d days'
		  AND o.created_at >= NOW() - INTERVAL '%d days'`, windowDays, newObjectDays)

	rows, cancel, err := w.queryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = rows.Close() }()

	var accesses []anomaly.NewObjectAccess
	for rows.Next() {
		var na anomaly.NewObjectAccess
		if err := rows.Scan(&na.User, &na.Object, &na.AccessTime, &na.ObjectCreated); err != nil {
			return nil, fmt.Errorf("scan new object access: %w", err)
		}
		accesses = append(accesses, na)
	}
	return accesses, rows.Err()
}

// ResultSet is a tabular ad-hoc query result.
type ResultSet struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Execute runs an already-gated query and materializes the result set.
// Failures propagate unchanged; there are no retries.
func (w *Warehouse) Execute(ctx context.Context, query string) (*ResultSet, error) {
	rows, cancel, err := w.queryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}
