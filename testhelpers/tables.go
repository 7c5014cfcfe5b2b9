package testhelpers

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/tables"
)

var DefaultConfig = config.DefaultConfig()

var (
	tablesOnce sync.Once
	tablesDir  string
	tablesErr  error
)

// Tables returns a directory holding a verified set of completion tables.
// The configured data path is used when it already holds one; otherwise
// the tables are generated once per test binary into a temporary directory.
func Tables(t testing.TB) tables.Dir {
	t.Helper()
	tablesOnce.Do(func() {
		if dir := DefaultConfig.DataPath(); tables.Verify(dir) == nil {
			tablesDir = dir
			return
		}
		tablesDir, tablesErr = os.MkdirTemp("", "schotten-tables-")
		if tablesErr != nil {
			return
		}
		_, tablesErr = tables.Generate(context.Background(), tablesDir)
	})
	if tablesErr != nil {
		t.Fatalf("preparing completion tables: %v", tablesErr)
	}
	return tables.Dir(tablesDir)
}
