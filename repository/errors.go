package repository

import "errors"

// ErrNotFound is returned by writes that target a row which does not exist.
// Reads signal absence with a nil result instead.
var ErrNotFound = errors.New("not found")

// nowExpr is the timestamp format shared by every created_at/updated_at column.
const nowExpr = `strftime('%Y-%m-%d %H:%M:%f', 'now')`
