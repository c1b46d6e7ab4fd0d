package weekgo

// Database is a store that owns its schema.
type Database interface {
	Close() error
	Migrate() error
}
