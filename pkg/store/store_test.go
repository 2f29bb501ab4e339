package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/gridexport/pkg/grid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db"), WALMode: true})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file database", Config{Path: filepath.Join(t.TempDir(), "a.db")}, false},
		{"memory database", Config{Path: ":memory:"}, false},
		{"empty path", Config{}, true},
		{"unknown driver", Config{Driver: "postgres", Path: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer s.Close()
			if s.Driver() != DriverModernc {
				t.Errorf("Driver() = %q", s.Driver())
			}
			if err := s.Ping(context.Background()); err != nil {
				t.Errorf("Ping() failed: %v", err)
			}
		})
	}
}

func TestSeedAndColumns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.Seed(ctx, 12)
	if err != nil || n != 12 {
		t.Fatalf("Seed() = %d, %v", n, err)
	}
	// Seeding twice replaces rows.
	if _, err := s.Seed(ctx, 12); err != nil {
		t.Fatalf("second Seed() failed: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil || count != 12 {
		t.Errorf("row count = %d, %v", count, err)
	}

	cols, err := s.Columns(ctx, DemoTable)
	if err != nil {
		t.Fatalf("Columns() failed: %v", err)
	}
	if strings.Join(cols, ",") != "id,uid,name,email,role,active,balance,bio,created_at" {
		t.Errorf("Columns() = %v", cols)
	}

	if _, err := s.Columns(ctx, "missing"); err == nil {
		t.Error("expected error for missing table")
	}
	var idErr *IdentifierError
	if _, err := s.Columns(ctx, "users; DROP TABLE users"); !errors.As(err, &idErr) {
		t.Errorf("expected IdentifierError, got %v", err)
	}
}

func TestQueryProvider(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.Seed(ctx, 5); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}

	p, err := s.NewQueryProvider(Source{Table: DemoTable, Key: "id", OrderBy: []string{"-id"}})
	if err != nil {
		t.Fatalf("NewQueryProvider() failed: %v", err)
	}

	p.SetPagination(&grid.Pagination{Page: 1, PageSize: 2})
	if err := p.Prepare(ctx); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if p.TotalCount() != 5 || p.Count() != 2 {
		t.Fatalf("TotalCount/Count = %d/%d", p.TotalCount(), p.Count())
	}
	if p.Keys()[0] != int64(3) || p.Keys()[1] != int64(2) {
		t.Errorf("Keys() = %v", p.Keys())
	}
	row := p.Records()[0].(Row)
	if name, _ := row.Get("name"); name != "Linus Lovelace" {
		t.Errorf("name = %v", name)
	}

	p.SetPagination(nil)
	if err := p.Prepare(ctx); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if p.Count() != 5 {
		t.Errorf("unpaginated Count() = %d", p.Count())
	}
	if email, _ := p.Records()[0].(Row).Get("email"); email != nil {
		t.Errorf("fifth user should have no email, got %v", email)
	}
}

func TestQueryProvider_PositionalKeys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.Seed(ctx, 3)

	p, err := s.NewQueryProvider(Source{Table: DemoTable})
	if err != nil {
		t.Fatalf("NewQueryProvider() failed: %v", err)
	}
	p.SetPagination(&grid.Pagination{Page: 1, PageSize: 2})
	if err := p.Prepare(ctx); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if p.Count() != 1 || p.Keys()[0] != 2 {
		t.Errorf("Keys() = %v", p.Keys())
	}
}

func TestSource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr bool
	}{
		{"valid", Source{Table: "users", Key: "id", OrderBy: []string{"-name", "id"}}, false},
		{"bad table", Source{Table: "users u"}, true},
		{"bad key", Source{Table: "users", Key: "id)"}, true},
		{"bad order", Source{Table: "users", OrderBy: []string{"name DESC"}}, true},
		{"empty table", Source{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.source.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQueryProvider_MissingTable(t *testing.T) {
	s := openTestStore(t)
	p, _ := s.NewQueryProvider(Source{Table: "nothing"})

	var storageErr *StorageError
	if err := p.Prepare(context.Background()); !errors.As(err, &storageErr) || storageErr.Operation != "count" {
		t.Errorf("expected count StorageError, got %v", err)
	}
}
