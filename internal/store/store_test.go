package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jeopardy.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	defer func() { _ = db.Close() }()

	schema := `
CREATE TABLE categories (
  category_id INTEGER PRIMARY KEY,
  season_id INTEGER,
  game_id INTEGER,
  round_name TEXT,
  category_name TEXT NOT NULL
);
CREATE TABLE contestants (
  contestant_id INTEGER PRIMARY KEY,
  name TEXT NOT NULL
);
INSERT INTO categories VALUES (1, 35, 7001, 'Jeopardy! Round', 'POTPOURRI');
INSERT INTO categories VALUES (2, 35, 7001, 'Double Jeopardy! Round', 'WORLD CAPITALS');
INSERT INTO contestants VALUES (1, 'Ken');
`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return path
}

func openStore(t *testing.T) *Store {
	t.Helper()
	st := New(seedDB(t))
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestQuery_ReturnsRowsAsJSON(t *testing.T) {
	st := openStore(t)

	out, err := st.Query(context.Background(), "SELECT category_name FROM categories ORDER BY category_id")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("payload is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 2 || rows[0]["category_name"] != "POTPOURRI" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestQuery_EmptyResultIsEmptyArray(t *testing.T) {
	st := openStore(t)

	out, err := st.Query(context.Background(), "SELECT * FROM contestants WHERE name='nobody'")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected [], got %q", out)
	}
}

func TestQuery_RejectsWrites(t *testing.T) {
	st := openStore(t)

	for _, q := range []string{
		"DROP TABLE categories",
		"DELETE FROM categories",
		"INSERT INTO contestants VALUES (2, 'Brad')",
		"UPDATE categories SET category_name='x'",
	} {
		if _, err := st.Query(context.Background(), q); !errors.Is(err, ErrWriteQuery) {
			t.Fatalf("query %q: expected ErrWriteQuery, got %v", q, err)
		}
	}
}

func TestQuery_AllowsCTE(t *testing.T) {
	st := openStore(t)

	out, err := st.Query(context.Background(), "WITH c AS (SELECT count(*) AS n FROM categories) SELECT n FROM c")
	if err != nil {
		t.Fatalf("CTE query failed: %v", err)
	}
	if !strings.Contains(out, "2") {
		t.Fatalf("unexpected payload: %q", out)
	}
}

func TestListTables(t *testing.T) {
	st := openStore(t)

	tables, err := st.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	want := []string{"categories", "contestants"}
	if len(tables) != len(want) || tables[0] != want[0] || tables[1] != want[1] {
		t.Fatalf("unexpected tables: %v", tables)
	}
}

func TestDescribeTable(t *testing.T) {
	st := openStore(t)

	cols, err := st.DescribeTable(context.Background(), "categories")
	if err != nil {
		t.Fatalf("DescribeTable failed: %v", err)
	}
	if len(cols) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(cols))
	}
	if cols[0].Name != "category_id" || !cols[0].PK {
		t.Fatalf("unexpected first column: %#v", cols[0])
	}
	if cols[4].Name != "category_name" || !cols[4].NotNull {
		t.Fatalf("unexpected last column: %#v", cols[4])
	}
}

func TestDescribeTable_InvalidName(t *testing.T) {
	st := openStore(t)

	if _, err := st.DescribeTable(context.Background(), "categories; DROP TABLE categories"); !errors.Is(err, ErrBadTableName) {
		t.Fatalf("expected ErrBadTableName, got %v", err)
	}
	if _, err := st.DescribeTable(context.Background(), "missing_table"); err == nil {
		t.Fatalf("expected error for unknown table")
	}
}
