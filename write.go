package database

import (
	"context"
	"time"

	"github.com/goforj/database/dbcore"
)

// InsertData runs an insert on the write link and returns the generated id.
// @group Writes
//
// Example: insert a page
//
//	id, err := db.InsertData(ctx, "INSERT INTO pages (title) VALUES ('home')")
//	fmt.Println(id, err)
func (d *Database) InsertData(ctx context.Context, query string) (int64, error) {
	res, err := d.write(ctx, "insert", query)
	if err != nil {
		return 0, err
	}
	return res.InsertID, nil
}

// UpdateData runs an update on the write link and reports success.
// @group Writes
func (d *Database) UpdateData(ctx context.Context, query string) (bool, error) {
	if _, err := d.write(ctx, "update", query); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateDataRows runs an update on the write link and returns the number of
// affected rows.
// @group Writes
//
// Example: count updated rows
//
//	n, err := db.UpdateDataRows(ctx, "UPDATE pages SET hidden = 1 WHERE views = 0")
//	fmt.Println(n, err)
func (d *Database) UpdateDataRows(ctx context.Context, query string) (int64, error) {
	res, err := d.write(ctx, "update", query)
	if err != nil {
		return 0, err
	}
	return res.AffectedRows, nil
}

// DeleteData runs a delete on the write link and returns the number of
// affected rows.
// @group Writes
func (d *Database) DeleteData(ctx context.Context, query string) (int64, error) {
	res, err := d.write(ctx, "delete", query)
	if err != nil {
		return 0, err
	}
	return res.AffectedRows, nil
}

// write clears the result cache before the statement runs and again after it
// succeeds.
func (d *Database) write(ctx context.Context, op, query string) (*dbcore.Result, error) {
	start := time.Now()
	d.log.Info("DB query " + query)
	d.invalidateQueryCache()
	res, err := d.execute(ctx, query, roleLink{m: d.links, role: dbcore.Write})
	if err == nil {
		d.cache.invalidate()
	}
	d.observe(ctx, op, query, false, err, start)
	return res, err
}
