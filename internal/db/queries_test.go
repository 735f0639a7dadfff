package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/pelvilog/internal/config"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

var utc = record.NewLocale(time.UTC)

func newTestRecord(id string, ts time.Time, d record.Details) *record.Record {
	return &record.Record{ID: id, Entry: utc.Stamp(ts, d)}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestInsertAndGetByID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	r := newTestRecord("01HZ0001", at(1, 8, 0), record.Leakage{
		Amount:       record.AmountModerate,
		Circumstance: record.CircumstanceSneeze,
		Intensity:    3,
	})
	if err := Insert(ctx, db, r); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := GetByID(ctx, db, r.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ID != r.ID || got.Date != "01/03/2024" || got.Time != "08:00" {
		t.Errorf("got %+v", got)
	}
	if !got.Timestamp.Equal(r.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, r.Timestamp)
	}
	if got.Details != r.Details {
		t.Errorf("Details = %+v, want %+v", got.Details, r.Details)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetByID(context.Background(), db, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestInsert_UniqueConstraint(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	r := newTestRecord("dup", at(1, 8, 0), record.FluidIntake{Amount: 100, DrinkType: record.DrinkWater})
	if err := Insert(ctx, db, r); err != nil {
		t.Fatalf("first Insert() error = %v", err)
	}
	if err := Insert(ctx, db, r); err != ErrUniqueConstraint {
		t.Errorf("second Insert() error = %v, want ErrUniqueConstraint", err)
	}
}

func TestInsert_NilDetails(t *testing.T) {
	db := openTestDB(t)

	err := Insert(context.Background(), db, &record.Record{ID: "x"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestInsertBatch_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	existing := newTestRecord("b", at(1, 9, 0), record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDry})
	if err := Insert(ctx, db, existing); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	batch := []record.Record{
		*newTestRecord("a", at(1, 8, 0), record.FluidIntake{Amount: 100, DrinkType: record.DrinkTea}),
		*newTestRecord("b", at(1, 10, 0), record.FluidIntake{Amount: 200, DrinkType: record.DrinkTea}),
	}
	if err := InsertBatch(ctx, db, batch); err != ErrUniqueConstraint {
		t.Fatalf("InsertBatch() error = %v, want ErrUniqueConstraint", err)
	}

	n, err := Count(ctx, db, ListFilter{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1 (batch rolled back)", n)
	}
}

func TestInsertBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	db := openTestDB(t)
	cancel()

	batch := []record.Record{*newTestRecord("a", at(1, 8, 0), record.FluidIntake{Amount: 1, DrinkType: record.DrinkWater})}
	if err := InsertBatch(ctx, db, batch); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	r := newTestRecord("gone", at(2, 7, 30), record.Urination{Amount: record.AmountLarge, ArrivedOnTime: true})
	if err := Insert(ctx, db, r); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := Delete(ctx, db, r.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := GetByID(ctx, db, r.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID after delete: %v, want NOT_FOUND", err)
	}
	if err := Delete(ctx, db, r.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Delete() = %v, want NOT_FOUND", err)
	}
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	records := []record.Record{
		*newTestRecord("r1", at(1, 8, 0), record.FluidIntake{Amount: 250, DrinkType: record.DrinkWater}),
		*newTestRecord("r2", at(1, 9, 15), record.Urination{Amount: record.AmountMedium}),
		*newTestRecord("r3", at(2, 11, 0), record.Urgency{Intensity: 6, ReachedBathroom: record.ReachedYes, WarningTime: record.WarningUnder10}),
		*newTestRecord("r4", at(3, 6, 45), record.PadUse{PadType: record.PadMedium, Condition: record.ConditionDamp}),
		*newTestRecord("r5", at(3, 6, 45), record.FluidIntake{Amount: 150, DrinkType: record.DrinkCoffee}),
	}
	if err := InsertBatch(context.Background(), db, records); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestList_NewestFirstWithStableTieBreak(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	got, err := List(context.Background(), db, ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"r5", "r4", "r3", "r2", "r1"}
	if !equalIDs(ids(got), want) {
		t.Errorf("List() ids = %v, want %v", ids(got), want)
	}
}

func TestList_Filters(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seed(t, db)

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"by date", ListFilter{Date: "01/03/2024"}, []string{"r2", "r1"}},
		{"from", ListFilter{From: at(2, 0, 0)}, []string{"r5", "r4", "r3"}},
		{"to exclusive", ListFilter{To: at(1, 9, 15)}, []string{"r1"}},
		{"range", ListFilter{From: at(1, 9, 0), To: at(3, 0, 0)}, []string{"r3", "r2"}},
		{"pagination", ListFilter{Limit: 2, Offset: 1}, []string{"r4", "r3"}},
		{"no match", ListFilter{Date: "31/12/1999"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := List(ctx, db, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("ids = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seed(t, db)

	n, err := Count(ctx, db, ListFilter{Date: "03/03/2024", Limit: 1})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestConfigurePool(t *testing.T) {
	db := openTestDB(t)

	ConfigurePool(db, &config.Config{DBMaxOpenConns: 1, DBMaxIdleConns: 1})
	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", got)
	}

	ConfigurePool(db, nil)
}
