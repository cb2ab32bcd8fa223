// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests using it carry the "integration" build tag and are
// skipped when DATABASE_URL is not set.
//
// The usual pattern opens one connection per test, applies the embedded
// migrations, and runs each case in a transaction that is rolled back
// afterwards:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		tasks := postgres.NewPostgresTaskStore(tx, nil)
//		...
//	})
package testdb
