// Package schema holds the database schema of vettracker.
package schema

import (
	"embed"
	"io/fs"
)

//go:embed postgres
var embedded embed.FS

// Postgres is the schema repository for postgres.
//
// It has numbered directories, one per schema version.
func Postgres() fs.FS {
	sub, err := fs.Sub(embedded, "postgres")
	if err != nil {
		panic(err)
	}
	return sub
}
