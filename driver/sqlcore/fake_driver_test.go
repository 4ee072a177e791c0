package sqlcore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
)

type fakeDriver struct {
	execErr  error
	queryErr error
	pingErr  error
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return &fakeConn{execErr: d.execErr, queryErr: d.queryErr, pingErr: d.pingErr}, nil
}

type fakeConn struct {
	execErr  error
	queryErr error
	pingErr  error
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not impl") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, errors.New("not impl") }

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if c.execErr != nil {
		return nil, c.execErr
	}
	return fakeResult{id: 7, affected: 3}, nil
}
func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return &fakeRows{
		cols: []string{"id", "name"},
		data: [][]driver.Value{{int64(1), []byte("ada")}, {int64(2), []byte("grace")}},
	}, nil
}
func (c *fakeConn) Ping(ctx context.Context) error { return c.pingErr }

type fakeResult struct {
	id       int64
	affected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return r.id, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

type fakeRows struct {
	cols []string
	data [][]driver.Value
	pos  int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

func init() {
	sql.Register("sqlcorefake", &fakeDriver{})
	sql.Register("sqlcorefail", &fakeDriver{execErr: errors.New("boom"), queryErr: errors.New("bad select")})
	sql.Register("sqlcorepingfail", &fakeDriver{pingErr: errors.New("ping boom")})
}
