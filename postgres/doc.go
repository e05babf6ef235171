/*
Package postgres manages the database connection. As part of the connection process, all migrations
are run on the database. When the database is simply a target for some testing, the public schema
is dropped first.

[*DB] wraps [*gorm.DB], exposing query building methods that chain
and finisher methods that translate GORM and PostgreSQL errors into wayfarer errors.
*/
package postgres
