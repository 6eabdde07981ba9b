// Package migrations holds the goose Go migrations. They are Go rather than
// SQL because their DDL depends on the database driver.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect selects the DDL flavor. Must be called before goose.Up.
// Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
