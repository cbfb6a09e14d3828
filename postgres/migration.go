// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	migrate "github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal store flow, either at initial
// startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_applications",
			Up: []string{
				`CREATE TABLE application(
					id INTEGER NOT NULL PRIMARY KEY,
					app_name VARCHAR(100) NOT NULL,
					app_version VARCHAR(100) NOT NULL,
					logo VARCHAR(100) NOT NULL,
					company_name TEXT NOT NULL
				)`,
				`CREATE SEQUENCE application_id_seq OWNED BY application.id`,
			},
			Down: []string{
				`DROP TABLE application`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
