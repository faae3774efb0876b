package review

import "github.com/jackc/pgx/v5"

// errNoRows lets write paths that affected nothing report not found the
// same way lookups do.
var errNoRows = pgx.ErrNoRows
