//go:build integration

package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goforj/database"
	"github.com/goforj/database/dbcore"
	"github.com/goforj/database/dbtest"
	"github.com/goforj/database/driver/mysqldb"
	"github.com/goforj/database/driver/postgresdb"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name         string
	driver       dbcore.Driver
	start        func(t *testing.T, ctx context.Context) string
	connector    func(t *testing.T) dbcore.Connector
	createPages  string
	insertSuffix string
}

var backends = []backend{
	{
		name:   "mysql",
		driver: dbcore.DriverMySQL,
		start:  startMySQLContainer,
		connector: func(t *testing.T) dbcore.Connector {
			c, err := mysqldb.New(mysqldb.Config{Timeout: 5 * time.Second})
			require.NoError(t, err)
			return c
		},
		createPages: "CREATE TABLE prefix_pages (id INT AUTO_INCREMENT PRIMARY KEY, title VARCHAR(64) NOT NULL, hidden INT NOT NULL DEFAULT 0)",
	},
	{
		name:   "postgres",
		driver: dbcore.DriverPostgres,
		start:  startPostgresContainer,
		connector: func(t *testing.T) dbcore.Connector {
			c, err := postgresdb.New(postgresdb.Config{SSLMode: "disable"})
			require.NoError(t, err)
			return c
		},
		createPages:  "CREATE TABLE prefix_pages (id SERIAL PRIMARY KEY, title VARCHAR(64) NOT NULL, hidden INT NOT NULL DEFAULT 0)",
		insertSuffix: " RETURNING id",
	},
}

func TestBackends(t *testing.T) {
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			if !integrationDriverEnabled(b.name) {
				t.Skipf("%s disabled by INTEGRATION_DRIVER", b.name)
			}
			ctx := context.Background()
			endpoint := dbcore.ConnectionConfig{
				Host:     b.start(t, ctx),
				User:     containerUser,
				Password: containerPassword,
				Database: containerDatabase,
			}
			connector := b.connector(t)
			require.NoError(t, retry(60*time.Second, time.Second, func() error {
				link, err := connector.Connect(ctx, endpoint)
				if err != nil {
					return err
				}
				return link.Close()
			}))

			t.Run("connector contract", func(t *testing.T) {
				dbtest.RunConnectorContract(t, connector, endpoint, dbtest.Options{CaseName: b.name})
			})
			t.Run("database", func(t *testing.T) {
				runDatabaseSuite(t, b, connector, endpoint)
			})
		})
	}
}

func runDatabaseSuite(t *testing.T, b backend, connector dbcore.Connector, endpoint dbcore.ConnectionConfig) {
	ctx := context.Background()
	out, _ := test.NewNullLogger()
	db, err := database.New(database.Config{
		Driver:      b.driver,
		TablePrefix: "it_",
		Split:       true,
		Read:        []dbcore.ConnectionConfig{endpoint},
		Write:       []dbcore.ConnectionConfig{endpoint},
		Host:        endpoint.Host,
		User:        endpoint.User,
		Password:    endpoint.Password,
		Database:    endpoint.Database,
	}, database.WithConnector(connector), database.WithLogger(database.NewLogger(out, nil)))
	require.NoError(t, err)
	defer db.Close()

	script := strings.Join([]string{
		"DROP TABLE IF EXISTS prefix_pages",
		"DROP TABLE IF EXISTS prefix_datalists",
		b.createPages,
		"CREATE TABLE prefix_datalists (name VARCHAR(32) PRIMARY KEY, value VARCHAR(255))",
		"INSERT INTO prefix_datalists (name, value) VALUES ('installed', '1')",
		"INSERT INTO prefix_nowhere (name) VALUES ('lost')",
	}, ";\n") + ";\n"
	err = db.RunSQLScriptReader(ctx, strings.NewReader(script))
	var scriptErr *database.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	require.Len(t, scriptErr.Failures, 1)
	require.NoError(t, db.AssertInstalled(ctx))

	id, err := db.InsertData(ctx, "INSERT INTO it_pages (title) VALUES ('home')"+b.insertSuffix)
	require.NoError(t, err)
	require.Positive(t, id)

	byID := fmt.Sprintf("SELECT id, title FROM it_pages WHERE id = %d", id)
	row, ok, err := db.GetDataRow(ctx, byID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "home", row["title"])
	before := db.QueryCount()
	_, _, err = db.GetDataRow(ctx, byID)
	require.NoError(t, err)
	require.Equal(t, before, db.QueryCount())

	for _, title := range []string{"a", "b", "c"} {
		_, err := db.InsertData(ctx, "INSERT INTO it_pages (title) VALUES ("+database.SanitizeString(title)+")"+b.insertSuffix)
		require.NoError(t, err)
	}
	n, err := db.UpdateDataRows(ctx, "UPDATE it_pages SET hidden = 1 WHERE title IN ('a', 'b', 'c')")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	deleted, err := db.DeleteData(ctx, fmt.Sprintf("DELETE FROM it_pages WHERE id = %d", id))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
	rows, err := db.GetData(ctx, byID)
	require.NoError(t, err)
	require.Empty(t, rows)

	var handled int64
	require.True(t, db.RegisterDelayedQuery("UPDATE it_pages SET hidden = 0", dbcore.Write, func(res *dbcore.Result) {
		handled = res.AffectedRows
	}))
	require.NoError(t, db.Shutdown(ctx))
	require.EqualValues(t, 3, handled)
}
