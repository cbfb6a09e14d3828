// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"context"
	"database/sql"

	"github.com/diffeo/go-appregistry/registry"
	"github.com/lib/pq"
)

const (
	applicationTable = "application"
	applicationIDSeq = "application_id_seq"
	idColumn         = "id"
)

var applicationColumns = []string{
	"id",
	"app_name",
	"app_version",
	"logo",
	"company_name",
}

// scanApplication reads one row of applicationColumns.
func scanApplication(row interface {
	Scan(...interface{}) error
}) (app registry.Application, err error) {
	err = row.Scan(&app.ID, &app.AppName, &app.AppVersion, &app.Logo, &app.CompanyName)
	return
}

// appFields builds the field list for the settable fields of app.
func appFields(qp *queryParams, app registry.Application) fieldList {
	var fields fieldList
	fields.Add(qp, "app_name", app.AppName)
	fields.Add(qp, "app_version", app.AppVersion)
	fields.Add(qp, "logo", app.Logo)
	fields.Add(qp, "company_name", app.CompanyName)
	return fields
}

// Reset replaces the entire contents of the store with apps, and
// restarts ID assignment one past the highest ID in apps.
func (s *Store) Reset(ctx context.Context, apps []registry.Application) error {
	nextID := 1
	for _, app := range apps {
		if app.ID >= nextID {
			nextID = app.ID + 1
		}
	}
	return withTx(ctx, s.db, false, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM "+applicationTable)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, pq.CopyIn(applicationTable, applicationColumns...))
		if err != nil {
			return err
		}
		for _, app := range apps {
			_, err = stmt.ExecContext(ctx, app.ID, app.AppName, app.AppVersion, app.Logo, app.CompanyName)
			if err != nil {
				_ = stmt.Close()
				return err
			}
		}
		// An empty Exec flushes the COPY
		_, err = stmt.ExecContext(ctx)
		if err == nil {
			err = stmt.Close()
		} else {
			_ = stmt.Close()
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, "SELECT setval($1, $2, false)", applicationIDSeq, nextID)
		return err
	})
}

func (s *Store) List(ctx context.Context) ([]registry.Application, error) {
	apps := []registry.Application{}
	query := buildSelect(applicationColumns, []string{applicationTable}, nil) +
		" ORDER BY " + idColumn
	err := withTx(ctx, s.db, true, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		return scanRows(rows, func() error {
			app, err := scanApplication(rows)
			if err == nil {
				apps = append(apps, app)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Store) Count(ctx context.Context) (count int, err error) {
	query := buildSelect([]string{"COUNT(*)"}, []string{applicationTable}, nil)
	err = withTx(ctx, s.db, true, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query).Scan(&count)
	})
	return
}

func (s *Store) Create(ctx context.Context, app registry.Application) (registry.Application, error) {
	var fields fieldList
	params := queryParams{}
	fields.AddDirect(idColumn, "nextval('"+applicationIDSeq+"')")
	fields.Fields = append(fields.Fields, appFields(&params, app).Fields...)
	query := fields.InsertStatement(applicationTable) + " RETURNING " + idColumn
	err := withTx(ctx, s.db, false, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, params...).Scan(&app.ID)
	})
	if err != nil {
		return registry.Application{}, err
	}
	return app, nil
}

func (s *Store) Get(ctx context.Context, id int) (app registry.Application, err error) {
	params := queryParams{}
	query := buildSelect(applicationColumns, []string{applicationTable}, []string{
		idColumn + "=" + params.Param(id),
	})
	err = withTx(ctx, s.db, true, func(tx *sql.Tx) error {
		var err error
		app, err = scanApplication(tx.QueryRowContext(ctx, query, params...))
		return err
	})
	if err == sql.ErrNoRows {
		err = registry.ErrNoSuchApplication{ID: id}
	}
	return
}

func (s *Store) Update(ctx context.Context, id int, app registry.Application) (registry.Application, error) {
	params := queryParams{}
	fields := appFields(&params, app)
	query := buildUpdate(applicationTable, fields.UpdateChanges(), []string{
		idColumn + "=" + params.Param(id),
	})
	err := withTx(ctx, s.db, false, func(tx *sql.Tx) error {
		return execOne(ctx, tx, id, query, params)
	})
	if err != nil {
		return registry.Application{}, err
	}
	app.ID = id
	return app, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	params := queryParams{}
	query := "DELETE FROM " + applicationTable + " WHERE " + idColumn + "=" + params.Param(id)
	return withTx(ctx, s.db, false, func(tx *sql.Tx) error {
		return execOne(ctx, tx, id, query, params)
	})
}

// execOne runs a statement that should affect exactly the one record
// with the given ID, returning ErrNoSuchApplication if it affects
// none.
func execOne(ctx context.Context, tx *sql.Tx, id int, query string, params queryParams) error {
	result, err := tx.ExecContext(ctx, query, params...)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return registry.ErrNoSuchApplication{ID: id}
	}
	return nil
}
