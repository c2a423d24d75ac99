package database

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/lib/pq"
)

func TestEmbeddedSchemaDefinesTables(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil || len(names) == 0 {
		t.Fatalf("no embedded migrations: %v", err)
	}

	var schema strings.Builder
	for _, name := range names {
		b, err := migrations.ReadFile(name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		schema.Write(b)
	}

	for _, table := range []string{"comics", "comic_character", "photo_info", "photo_sequence"} {
		if !strings.Contains(schema.String(), "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("schema does not create %s", table)
		}
	}
}

func TestConstraint(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pq.Error{Code: CodeCheckViolation, Constraint: "comics_rating_range"})

	name, ok := Constraint(err, CodeCheckViolation)
	if !ok || name != "comics_rating_range" {
		t.Fatalf("got (%q, %v)", name, ok)
	}

	if _, ok := Constraint(err, CodeForeignKeyViolation); ok {
		t.Fatal("expected no match for a different code")
	}
	if _, ok := Constraint(errors.New("boom"), CodeCheckViolation); ok {
		t.Fatal("expected no match for a non-pq error")
	}
	if _, ok := Constraint(nil, CodeCheckViolation); ok {
		t.Fatal("expected no match for nil")
	}
}
