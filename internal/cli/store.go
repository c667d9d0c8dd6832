package cli

import (
	"fmt"

	"github.com/roach88/tally/internal/store"
)

// DefaultDBPath is the model store used when --db is not given.
const DefaultDBPath = "tally.db"

// openStore opens the model store, mapping failures to command errors.
func openStore(formatter *OutputFormatter, dbPath string) (*store.Store, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, outputCommandError(formatter, ErrCodeStoreError,
			fmt.Sprintf("opening model store %s: %v", dbPath, err))
	}
	formatter.VerboseLog("Opened model store: %s", dbPath)
	return s, nil
}
