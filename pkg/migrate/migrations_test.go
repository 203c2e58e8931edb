package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestNegotiationsMigrationEnforcesActivePairUniqueness(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_negotiations.sql"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected exactly one negotiations migration, got %v (err=%v)", matches, err)
	}

	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(b)

	if !strings.Contains(sql, "idx_negotiations_active_per_pair") {
		t.Fatal("missing partial unique index on active negotiations")
	}
	if !strings.Contains(sql, "WHERE status IN ('open', 'countered')") {
		t.Fatal("partial index must cover only open/countered rows")
	}
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products.sql"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected exactly one products migration, got %v (err=%v)", matches, err)
	}

	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(b), "CHECK (stock_qty >= 0)") {
		t.Fatal("stock_qty must carry a non-negative check constraint")
	}
}
