//go:build !cgo_sqlite

package scripture

import (
	_ "modernc.org/sqlite" // pure Go SQLite driver, registers "sqlite"
)

const (
	driverName = "sqlite"
	driverType = "purego"
)
