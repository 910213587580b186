package db

import "context"

// SchemaInterface represents the versioned schema of the database.
type SchemaInterface interface {
	// Upgrade applies all versions newer than the current one.
	Upgrade(ctx context.Context) error

	// Version returns the current version of the schema in the database.
	//
	// It is 0 when no schema has been applied.
	Version(ctx context.Context) (int, error)

	// Latest returns the newest version known by the schema repository.
	Latest() (int, error)
}
