// Package migrations holds the goose migrations for both record stores.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the migrations for the postgres store.
func Postgres() fs.FS { return sub("postgres") }

// SQLite returns the migrations for the sqlite store.
func SQLite() fs.FS { return sub("sqlite") }

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		// The directories are embedded above; a failure is a build defect.
		panic(err)
	}
	return fsys
}
