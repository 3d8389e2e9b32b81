// Package sqldelivery implements a DeliveryPort over database/sql,
// grounded on the teacher's TimescaleSink: a batch INSERT with
// ON CONFLICT DO NOTHING keyed on the natural identity of the row, so
// redelivering the same range after a crash is idempotent at the storage
// layer in addition to the saga's own high-water guarantee.
package sqldelivery

import (
	"database/sql"
	"fmt"
	"strings"

	"blesync/internal/domain"
	"blesync/internal/ports"

	_ "github.com/lib/pq"
)

// SqlSink delivers event ranges by inserting one row per offset into a
// relational table keyed by (device_id, event_offset).
type SqlSink struct {
	db        *sql.DB
	tableName string
	clock     ports.ClockPort
}

// NewSqlSink opens a *sql.DB against dsn using the lib/pq driver and
// wraps it as a DeliveryPort writing into table. clock stamps the events
// it returns.
func NewSqlSink(dsn, table string, clock ports.ClockPort) (*SqlSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqldelivery: open: %w", err)
	}
	return &SqlSink{db: db, tableName: table, clock: clock}, nil
}

// NewSqlSinkFromDB wraps an already-open *sql.DB, useful for tests that
// inject a sqlmock connection.
func NewSqlSinkFromDB(db *sql.DB, table string, clock ports.ClockPort) *SqlSink {
	return &SqlSink{db: db, tableName: table, clock: clock}
}

func (s *SqlSink) Close() error { return s.db.Close() }

// Deliver inserts one row per offset in [r.Start, r.End) and returns
// EventsDelivered on success or SyncFailed(Transport, ...) on a SQL error.
func (s *SqlSink) Deliver(dev domain.DeviceId, r domain.EventRange) domain.Event {
	now := s.clock.Now()
	if r.Count() == 0 {
		return domain.EventsDelivered(dev, now, r)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.tableName)
	b.WriteString(" (device_id, event_offset) VALUES ")

	args := make([]any, 0, int(r.Count())*2)
	i := 0
	for off := r.Start; off < r.End; off++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d)", len(args)+1, len(args)+2))
		args = append(args, string(dev), uint64(off))
		i++
	}
	b.WriteString(" ON CONFLICT (device_id, event_offset) DO NOTHING")

	if _, err := s.db.Exec(b.String(), args...); err != nil {
		code := -1
		return domain.SyncFailed(dev, now, domain.TransportError(fmt.Sprintf("sql insert: %v", err), &code))
	}
	return domain.EventsDelivered(dev, now, r)
}

var _ ports.DeliveryPort = (*SqlSink)(nil)
