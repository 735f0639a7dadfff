package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit_Layout(t *testing.T) {
	base := filepath.Join(t.TempDir(), "home", ".pelvilog")

	db, err := Init(base)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer db.Close()

	for _, p := range []string{base, filepath.Join(base, "exports")} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", p)
		}
	}
	if _, err := os.Stat(filepath.Join(base, FileName)); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestInit_Schema(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %s, want wal", mode)
	}

	objects := []struct{ kind, name string }{
		{"table", "records"},
		{"index", "idx_records_occurred"},
		{"index", "idx_records_date"},
	}
	for _, o := range objects {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type=? AND name=?", o.kind, o.name).Scan(&name)
		if err != nil {
			t.Errorf("%s %s not found: %v", o.kind, o.name, err)
		}
	}
}

func TestInit_Reopen(t *testing.T) {
	dir := t.TempDir()

	first, err := Init(dir)
	if err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	if _, err := first.Exec(`INSERT INTO records (id, type, occurred_at, date, time, details_json, created_at)
		VALUES ('a', 'pad-use', 1, '01/01/2024', '00:00', '{}', 1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := Init(dir)
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer second.Close()

	version, err := GetUserVersion(second)
	if err != nil {
		t.Fatalf("GetUserVersion() error = %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}

	var n int
	if err := second.QueryRow("SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows after reopen = %d, want 1", n)
	}
}

func TestUserVersion_RoundTrip(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer db.Close()

	if err := SetUserVersion(db, 42); err != nil {
		t.Fatalf("SetUserVersion() error = %v", err)
	}
	got, err := GetUserVersion(db)
	if err != nil {
		t.Fatalf("GetUserVersion() error = %v", err)
	}
	if got != 42 {
		t.Errorf("user_version = %d, want 42", got)
	}
}
