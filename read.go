package database

import (
	"context"
	"time"

	"github.com/goforj/database/dbcore"
	log "github.com/sirupsen/logrus"
)

// Transform converts a result row into a caller value. ID names the
// conversion in cache keys: two transforms with the same ID must produce
// the same values. Entries whose ID, row flag or query differ never share a
// result, even when their flattened keys collide.
type Transform[T any] struct {
	ID string
	Fn func(dbcore.Row) T
}

// NewTransform pairs fn with its cache identifier.
func NewTransform[T any](id string, fn func(dbcore.Row) T) Transform[T] {
	return Transform[T]{ID: id, Fn: fn}
}

func (t Transform[T]) validate() error {
	if t.ID == "" || t.Fn == nil {
		return newError(ErrDatabase, msgMissingTransform, "", nil)
	}
	return nil
}

type singleRow[T any] struct {
	value T
	found bool
}

func identityRow(r dbcore.Row) dbcore.Row { return r }

// GetData returns every row of query, using the result cache when enabled.
// @group Reads
//
// Example: read rows
//
//	rows, err := db.GetData(ctx, "SELECT id, title FROM pages")
//	for _, row := range rows {
//		fmt.Println(row["id"], row["title"])
//	}
func (d *Database) GetData(ctx context.Context, query string) ([]dbcore.Row, error) {
	return readThrough(ctx, d, "get_data", query, "", false, manyRows(identityRow))
}

// GetDataRow returns the first row of query and whether there was one.
// @group Reads
//
// Example: read one row
//
//	row, ok, err := db.GetDataRow(ctx, "SELECT title FROM pages WHERE id = 1")
//	fmt.Println(ok, row["title"], err)
func (d *Database) GetDataRow(ctx context.Context, query string) (dbcore.Row, bool, error) {
	row, err := readThrough(ctx, d, "get_data_row", query, "", true, firstRow(identityRow))
	return row.value, row.found, err
}

// GetDataAs is GetData with every row passed through t once, before caching.
// @group Reads
//
// Example: typed rows
//
//	titles := database.NewTransform("page.title", func(r dbcore.Row) string {
//		return fmt.Sprint(r["title"])
//	})
//	names, err := database.GetDataAs(ctx, db, "SELECT title FROM pages", titles)
func GetDataAs[T any](ctx context.Context, d *Database, query string, t Transform[T]) ([]T, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return readThrough(ctx, d, "get_data", query, t.ID, false, manyRows(t.Fn))
}

// GetDataRowAs is GetDataRow with the first row passed through t.
// @group Reads
func GetDataRowAs[T any](ctx context.Context, d *Database, query string, t Transform[T]) (T, bool, error) {
	if err := t.validate(); err != nil {
		var zero T
		return zero, false, err
	}
	row, err := readThrough(ctx, d, "get_data_row", query, t.ID, true, firstRow(t.Fn))
	return row.value, row.found, err
}

func manyRows[T any](fn func(dbcore.Row) T) func([]dbcore.Row) []T {
	return func(rows []dbcore.Row) []T {
		out := make([]T, 0, len(rows))
		for _, r := range rows {
			out = append(out, fn(r))
		}
		return out
	}
}

func firstRow[T any](fn func(dbcore.Row) T) func([]dbcore.Row) singleRow[T] {
	return func(rows []dbcore.Row) singleRow[T] {
		if len(rows) == 0 {
			return singleRow[T]{}
		}
		return singleRow[T]{value: fn(rows[0]), found: true}
	}
}

// readThrough serves query from the result cache or runs it on the read link
// and stores the converted rows.
func readThrough[V any](ctx context.Context, d *Database, op, query, transformID string, single bool, convert func([]dbcore.Row) V) (V, error) {
	start := time.Now()
	if cached, ok := d.cache.get(transformID, single, query); ok {
		if v, ok := cached.(V); ok {
			d.cache.hit()
			d.log.log(LevelInfo, "DB query results returned from cache", log.Fields{"query": query})
			d.observe(ctx, op, query, true, nil, start)
			return v, nil
		}
	}
	d.cache.miss()

	var zero V
	gen := d.cache.generation()
	res, err := d.execute(ctx, query, roleLink{m: d.links, role: dbcore.Read})
	if err != nil {
		d.observe(ctx, op, query, false, err, start)
		return zero, err
	}
	if len(res.Rows) == 0 {
		d.log.log(LevelInfo, "DB query returned no results", log.Fields{"query": query})
	}
	v := convert(res.Rows)
	if d.cache.set(transformID, single, query, v, gen) {
		d.log.log(LevelInfo, "DB query results cached", log.Fields{"query": query})
	}
	d.observe(ctx, op, query, false, nil, start)
	return v, nil
}
