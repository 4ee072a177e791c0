package database

import (
	"context"
	"time"

	"github.com/goforj/database/dbcore"
	log "github.com/sirupsen/logrus"
)

// ExecuteQuery runs query on link and normalizes driver errors into *Error.
// Every call counts toward QueryCount, including failed ones.
// @group Links
//
// Example: raw statement on the write link
//
//	link, _ := db.GetLink(ctx, dbcore.Write)
//	res, err := db.ExecuteQuery(ctx, "UPDATE pages SET views = views + 1", link)
//	fmt.Println(res.AffectedRows, err)
func (d *Database) ExecuteQuery(ctx context.Context, query string, link dbcore.Link) (*dbcore.Result, error) {
	var src linkSource
	if link != nil {
		src = readyLink{link: link}
	}
	return d.execute(ctx, query, src)
}

// ExecuteOn is ExecuteQuery for a link that may still be resolving.
// @group Links
func (d *Database) ExecuteOn(ctx context.Context, query string, link *Future[dbcore.Link]) (*dbcore.Result, error) {
	var src linkSource
	if link != nil {
		src = pendingLink{future: link}
	}
	return d.execute(ctx, query, src)
}

func (d *Database) execute(ctx context.Context, query string, src linkSource) (*dbcore.Result, error) {
	d.queryCount.Add(1)
	start := time.Now()
	res, err := d.run(ctx, query, src)
	d.observe(ctx, "execute", query, false, err, start)
	if err != nil {
		d.log.log(LevelInfo, "DB query failed", log.Fields{"query": query, "err": err.Error()})
		return nil, err
	}
	return res, nil
}

func (d *Database) run(ctx context.Context, query string, src linkSource) (*dbcore.Result, error) {
	if query == "" || src == nil {
		return nil, newError(ErrDatabase, msgEmptyQuery, query, nil)
	}
	link, err := src.resolve(ctx)
	if err != nil {
		return nil, asError(err, query)
	}
	if link == nil {
		return nil, newError(ErrDatabase, msgEmptyQuery, query, nil)
	}
	res, err := link.Query(ctx, query)
	if err != nil {
		return nil, normalize(err, query)
	}
	if res == nil {
		res = &dbcore.Result{}
	}
	return res, nil
}
