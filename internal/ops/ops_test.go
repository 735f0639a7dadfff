package ops

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/pelvilog/internal/db"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

// fixedNow is the clock used by every ops test.
var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func testLocale() *record.Locale {
	return record.NewLocale(time.UTC).WithClock(func() time.Time { return fixedNow })
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// insertAt stores a record stamped at ts and returns it.
func insertAt(t *testing.T, database *sql.DB, id string, ts time.Time, d record.Details) record.Record {
	t.Helper()
	r := record.Record{ID: id, Entry: testLocale().Stamp(ts, d)}
	if err := db.Insert(context.Background(), database, &r); err != nil {
		t.Fatalf("db.Insert failed: %v", err)
	}
	return r
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestAdd_Defaults(t *testing.T) {
	database := openDB(t)
	loc := testLocale()

	tests := []struct {
		typ  string
		want record.Details
	}{
		{"fluid-intake", record.FluidIntake{Amount: 250, DrinkType: record.DrinkWater}},
		{"urination", record.Urination{Amount: record.AmountMedium, ArrivedOnTime: true, CompleteEmptying: true}},
		{"leakage", record.Leakage{Amount: record.AmountSmall, Circumstance: record.CircumstanceNone, Intensity: 3}},
		{"urgency", record.Urgency{Intensity: 5, ReachedBathroom: record.ReachedYes, WarningTime: record.Warning30To60}},
		{"pad-use", record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDry}},
	}

	for _, tc := range tests {
		t.Run(tc.typ, func(t *testing.T) {
			out, err := Add(context.Background(), database, loc, AddInput{Type: tc.typ})
			if err != nil {
				t.Fatalf("Add failed: %v", err)
			}
			if out.Record.Details != tc.want {
				t.Errorf("Details = %+v, want %+v", out.Record.Details, tc.want)
			}
			if out.Record.Date != "20/03/2024" || out.Record.Time != "12:00" {
				t.Errorf("stamp = %s %s, want 20/03/2024 12:00", out.Record.Date, out.Record.Time)
			}
			if out.Record.ID == "" {
				t.Error("ID should be assigned")
			}
		})
	}
}

func TestAdd_ExplicitFieldsAndTime(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()

	out, err := Add(ctx, database, testLocale(), AddInput{
		Type:             "urination",
		Date:             "1/3/2024",
		Time:             "7:05",
		Amount:           "large",
		ArrivedOnTime:    boolPtr(false),
		CompleteEmptying: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, database, out.Record.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Date != "01/03/2024" || got.Time != "07:05" {
		t.Errorf("stamp = %s %s", got.Date, got.Time)
	}
	want := record.Urination{Amount: record.AmountLarge}
	if got.Details != want {
		t.Errorf("Details = %+v, want %+v", got.Details, want)
	}
}

func TestAdd_Invalid(t *testing.T) {
	database := openDB(t)

	tests := []struct {
		name  string
		input AddInput
	}{
		{"unknown type", AddInput{Type: "nap"}},
		{"negative ml", AddInput{Type: "fluid-intake", Milliliters: intPtr(-5)}},
		{"unknown drink", AddInput{Type: "fluid-intake", DrinkType: "Agua"}},
		{"urination drops", AddInput{Type: "urination", Amount: "drops"}},
		{"leakage intensity", AddInput{Type: "leakage", Intensity: intPtr(6)}},
		{"urgency intensity", AddInput{Type: "urgency", Intensity: intPtr(0)}},
		{"date without time", AddInput{Type: "pad-use", Date: "01/03/2024"}},
		{"bad date", AddInput{Type: "pad-use", Date: "2024-03-01", Time: "08:00"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Add(context.Background(), database, testLocale(), tc.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestList_Pagination(t *testing.T) {
	database := openDB(t)
	for i := range 5 {
		insertAt(t, database, newID(fixedNow), fixedNow.Add(-time.Duration(i)*time.Hour),
			record.FluidIntake{Amount: 100 * (i + 1), DrinkType: record.DrinkWater})
	}

	out, err := List(context.Background(), database, testLocale(), ListInput{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(out.Items))
	}
	if out.Items[0].Details.(record.FluidIntake).Amount != 200 {
		t.Errorf("first item = %+v, want the second newest", out.Items[0])
	}
	if !out.Pagination.HasMore || out.Pagination.Total != 5 {
		t.Errorf("Pagination = %+v", out.Pagination)
	}
	if out.Sort != "timestamp_desc" {
		t.Errorf("Sort = %q", out.Sort)
	}
}

func TestList_LimitClamp(t *testing.T) {
	database := openDB(t)

	out, err := List(context.Background(), database, testLocale(), ListInput{Limit: 10000})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want %d", out.Pagination.Limit, MaxListLimit)
	}
	if out.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestList_DateFilter(t *testing.T) {
	database := openDB(t)
	insertAt(t, database, "a", fixedNow, record.PadUse{PadType: record.PadLarge, Condition: record.ConditionWet})
	insertAt(t, database, "b", fixedNow.Add(-48*time.Hour), record.PadUse{PadType: record.PadLarge, Condition: record.ConditionWet})

	out, err := List(context.Background(), database, testLocale(), ListInput{Date: "18/3/2024"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != "b" {
		t.Errorf("Items = %+v, want only b", out.Items)
	}

	if _, err := List(context.Background(), database, testLocale(), ListInput{Range: "year"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("unknown range error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	r := insertAt(t, database, "del", fixedNow, record.Urgency{Intensity: 2, ReachedBathroom: record.ReachedNo, WarningTime: record.WarningOver60})

	out, err := Delete(ctx, database, DeleteInput{ID: r.ID})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted || out.ID != r.ID {
		t.Errorf("output = %+v", out)
	}
	if out.Record == nil || out.Record.Details != r.Details || out.Record.Date != r.Date || out.Record.Time != r.Time {
		t.Errorf("deleted record = %+v, want %+v", out.Record, r)
	}
	if _, err := db.GetByID(ctx, database, r.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("record still readable after delete: %v", err)
	}

	if _, err := Delete(ctx, database, DeleteInput{ID: r.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete error = %v, want NOT_FOUND", err)
	}
	if _, err := Delete(ctx, database, DeleteInput{ID: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty id error = %v, want INVALID_REQUEST", err)
	}
}

func TestDaySummary(t *testing.T) {
	database := openDB(t)
	today := fixedNow.Add(-2 * time.Hour)
	insertAt(t, database, "1", today, record.FluidIntake{Amount: 250, DrinkType: record.DrinkWater})
	insertAt(t, database, "2", today, record.FluidIntake{Amount: 150, DrinkType: record.DrinkTea})
	insertAt(t, database, "3", today, record.Urination{Amount: record.AmountSmall, ArrivedOnTime: true})
	insertAt(t, database, "4", today, record.Urination{Amount: record.AmountSmall, ArrivedOnTime: true})
	insertAt(t, database, "5", today, record.Urination{Amount: record.AmountSmall, ArrivedOnTime: true})
	insertAt(t, database, "6", today, record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDamp})
	insertAt(t, database, "7", fixedNow.Add(-30*time.Hour), record.Leakage{Amount: record.AmountDrops, Circumstance: record.CircumstanceCough, Intensity: 1})

	out, err := DaySummary(context.Background(), database, testLocale(), DaySummaryInput{})
	if err != nil {
		t.Fatalf("DaySummary failed: %v", err)
	}
	if out.Date != "20/03/2024" || out.Records != 6 {
		t.Errorf("Date/Records = %s/%d", out.Date, out.Records)
	}
	if out.FluidML != 400 || out.Urinations != 3 || out.Leakages != 0 || out.PadChanges != 1 {
		t.Errorf("totals = %+v", out)
	}
	if out.MLPerUrination == nil || *out.MLPerUrination != 133 {
		t.Errorf("MLPerUrination = %v, want 133", out.MLPerUrination)
	}

	prev, err := DaySummary(context.Background(), database, testLocale(), DaySummaryInput{Date: "19/03/2024"})
	if err != nil {
		t.Fatalf("DaySummary failed: %v", err)
	}
	if prev.Leakages != 1 || prev.MLPerUrination != nil {
		t.Errorf("previous day = %+v", prev)
	}
}

func TestSelect_Ranges(t *testing.T) {
	database := openDB(t)
	insertAt(t, database, "future", fixedNow.Add(time.Hour), record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDry})
	insertAt(t, database, "week-edge", fixedNow.Add(-8*24*time.Hour+time.Minute), record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDry})
	insertAt(t, database, "eight-days", fixedNow.Add(-8*24*time.Hour), record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDry})
	insertAt(t, database, "month-edge", fixedNow.Add(-31*24*time.Hour+time.Minute), record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDry})
	insertAt(t, database, "old", fixedNow.Add(-90*24*time.Hour), record.PadUse{PadType: record.PadSmall, Condition: record.ConditionDry})

	tests := []struct {
		sel  Selection
		want []string
	}{
		{Selection{Range: RangeWeek}, []string{"future", "week-edge"}},
		{Selection{Range: RangeMonth}, []string{"future", "week-edge", "eight-days", "month-edge"}},
		{Selection{Range: RangeAll}, []string{"future", "week-edge", "eight-days", "month-edge", "old"}},
		{Selection{Range: RangeDay, Day: "12/3/2024"}, []string{"week-edge", "eight-days"}},
	}

	for _, tc := range tests {
		t.Run(string(tc.sel.Range), func(t *testing.T) {
			got, err := Select(context.Background(), database, testLocale(), tc.sel)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d records, want %v", len(got), tc.want)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	if r, err := ParseRange(""); err != nil || r != RangeWeek {
		t.Errorf("ParseRange(\"\") = %q, %v; want week", r, err)
	}
	if r, err := ParseRange(" Month "); err != nil || r != RangeMonth {
		t.Errorf("ParseRange(Month) = %q, %v", r, err)
	}
	if _, err := ParseRange("year"); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("ParseRange(year) error = %v", err)
	}
}

func TestNewID_Monotonic(t *testing.T) {
	prev := newID(fixedNow)
	for range 100 {
		id := newID(fixedNow)
		if id <= prev {
			t.Fatalf("newID not increasing: %s after %s", id, prev)
		}
		prev = id
	}
}
