package container

import (
	"context"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/duckbin/internal/store"
)

// Migrate creates the schema of the configured SQL store.
func Migrate(ctx context.Context, injector *do.Injector) error {
	opts := do.MustInvoke[*Options](injector)

	switch opts.Store {
	case StoreSQLite:
		s, err := do.Invoke[*store.SQLiteStore](injector)
		if err != nil {
			return err
		}

		return s.Migrate(ctx)
	case StorePostgres:
		// The provider migrates on creation.
		_, err := do.Invoke[*store.PostgresStore](injector)

		return err
	default:
		return fmt.Errorf("store %q has no schema to migrate", opts.Store)
	}
}
