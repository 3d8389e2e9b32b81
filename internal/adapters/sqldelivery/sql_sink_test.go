package sqldelivery

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"blesync/internal/domain"
	"blesync/internal/fakes"
)

func TestSqlSinkDeliverInsertsOneRowPerOffset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	clock := fakes.NewVirtualClock(1000)
	sink := NewSqlSinkFromDB(db, "delivered_events", clock)

	expectedQuery := regexp.QuoteMeta("INSERT INTO delivered_events (device_id, event_offset) VALUES ($1,$2),($3,$4),($5,$6) ON CONFLICT (device_id, event_offset) DO NOTHING")
	mock.ExpectExec(expectedQuery).
		WithArgs("dev-1", uint64(10), "dev-1", uint64(11), "dev-1", uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	e := sink.Deliver("dev-1", domain.NewEventRange(10, 13))
	if e.Kind != domain.EventsDeliveredKind {
		t.Fatalf("expected EventsDelivered, got %+v", e)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSqlSinkDeliverEmptyRangeSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	clock := fakes.NewVirtualClock(0)
	sink := NewSqlSinkFromDB(db, "delivered_events", clock)

	e := sink.Deliver("dev-1", domain.NewEventRange(5, 5))
	if e.Kind != domain.EventsDeliveredKind {
		t.Fatalf("expected EventsDelivered for an empty range, got %+v", e)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query for an empty range: %v", err)
	}
}

func TestSqlSinkDeliverSqlErrorYieldsSyncFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	clock := fakes.NewVirtualClock(0)
	sink := NewSqlSinkFromDB(db, "delivered_events", clock)

	mock.ExpectExec(".*").WillReturnError(errors.New("connection reset"))

	e := sink.Deliver("dev-1", domain.NewEventRange(0, 1))
	if e.Kind != domain.EventSyncFailed || e.Err.Kind != domain.ErrorKindTransport {
		t.Fatalf("expected SyncFailed(Transport, ...), got %+v", e)
	}
}
