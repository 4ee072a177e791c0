// Package dbtest provides a reusable contract suite for dbcore.Connector implementations.
//
// Driver packages can use it from their own tests without importing root test helpers.
//
// Example pattern (driver package test):
//
//	func TestSQLiteConnectorContract(t *testing.T) {
//		connector, err := sqlitedb.New()
//		if err != nil {
//			t.Fatalf("new connector: %v", err)
//		}
//		dbtest.RunConnectorContract(t, connector, dbcore.ConnectionConfig{
//			Database: filepath.Join(t.TempDir(), "contract.db"),
//		}, dbtest.Options{CaseName: t.Name()})
//	}
package dbtest
