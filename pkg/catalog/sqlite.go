package catalog

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/pedigree"
)

// diseaseRow is the persisted form of a catalog entry.
type diseaseRow struct {
	bun.BaseModel `bun:"table:diseases,alias:d"`

	ID          string  `bun:"id,pk"`
	Name        string  `bun:"name,notnull"`
	Inheritance string  `bun:"inheritance,notnull"`
	Prevalence  float64 `bun:"prevalence,notnull"`
	Penetrance  float64 `bun:"penetrance,notnull"`
	Description string  `bun:"description"`
	Color       string  `bun:"color"`
}

func (r diseaseRow) disease() pedigree.Disease {
	return pedigree.Disease{
		ID:          r.ID,
		Name:        r.Name,
		Inheritance: pedigree.Inheritance(r.Inheritance),
		Prevalence:  r.Prevalence,
		Penetrance:  r.Penetrance,
		Description: r.Description,
		Color:       r.Color,
	}
}

func rowFromDisease(d pedigree.Disease) diseaseRow {
	return diseaseRow{
		ID:          d.ID,
		Name:        d.Name,
		Inheritance: string(d.Inheritance),
		Prevalence:  d.Prevalence,
		Penetrance:  d.Penetrance,
		Description: d.Description,
		Color:       d.Color,
	}
}

// SQLite is a catalog backed by a SQLite database. The builtin seed is
// inserted on first open; later edits live in the database.
type SQLite struct {
	db *bun.DB
}

// OpenSQLite opens (creating if needed) a catalog database at dsn and
// seeds it with the builtin diseases that are not already present.
// Pass ":memory:" for an ephemeral catalog.
func OpenSQLite(ctx context.Context, dsn string, debug bool) (*SQLite, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open catalog db %s", dsn)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	// WAL keeps concurrent readers cheap for the API process.
	if _, err := db.ExecContext(ctx, `
        PRAGMA journal_mode = WAL;
        PRAGMA synchronous = NORMAL;
        PRAGMA foreign_keys = ON;
    `); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "apply pragmas")
	}

	if _, err := db.NewCreateTable().
		Model((*diseaseRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create diseases table")
	}

	c := &SQLite{db: db}
	if err := c.seed(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// seed inserts builtin diseases that are missing, never overwriting
// rows a deployment may have edited.
func (c *SQLite) seed(ctx context.Context) error {
	for _, d := range Builtin() {
		row := rowFromDisease(d)
		if _, err := c.db.NewInsert().
			Model(&row).
			Ignore().
			Exec(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "seed disease %q", d.ID)
		}
	}
	return nil
}

// List returns all diseases ordered by id.
func (c *SQLite) List(ctx context.Context) ([]pedigree.Disease, error) {
	var rows []diseaseRow
	if err := c.db.NewSelect().
		Model(&rows).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list diseases")
	}
	out := make([]pedigree.Disease, len(rows))
	for i, r := range rows {
		out[i] = r.disease()
	}
	return out, nil
}

// Get returns a disease by id.
func (c *SQLite) Get(ctx context.Context, id string) (pedigree.Disease, error) {
	row := new(diseaseRow)
	err := c.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return pedigree.Disease{}, errors.New(errors.ErrCodeDiseaseNotFound, "disease %q not in catalog", id)
	}
	if err != nil {
		return pedigree.Disease{}, errors.Wrap(errors.ErrCodeStorage, err, "get disease %q", id)
	}
	return row.disease(), nil
}

// Put validates and upserts a disease.
func (c *SQLite) Put(ctx context.Context, d pedigree.Disease) error {
	if err := d.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDisease, err, "put %q", d.ID)
	}
	row := rowFromDisease(d)
	if _, err := c.db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("inheritance = EXCLUDED.inheritance").
		Set("prevalence = EXCLUDED.prevalence").
		Set("penetrance = EXCLUDED.penetrance").
		Set("description = EXCLUDED.description").
		Set("color = EXCLUDED.color").
		Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "put disease %q", d.ID)
	}
	return nil
}

// Delete removes a disease row. Builtin ids are re-seeded on next open,
// so deleting one resets it rather than removing it permanently.
func (c *SQLite) Delete(ctx context.Context, id string) error {
	res, err := c.db.NewDelete().
		Model((*diseaseRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete disease %q", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New(errors.ErrCodeDiseaseNotFound, "disease %q not in catalog", id)
	}
	return nil
}

// Close closes the underlying database.
func (c *SQLite) Close() error {
	return c.db.Close()
}

// Ensure SQLite implements Catalog.
var _ Catalog = (*SQLite)(nil)
