package testutils

import (
	"testing"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/require"

	multitenancy "github.com/bartventer/gorm-multitenancy/v8"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/db"
)

// TestDB is the default database of the disposable Postgres container.
var TestDB = config.Database{
	Host: commoncfg.SourceRef{
		Source: commoncfg.EmbeddedSourceValue,
		Value:  "localhost",
	},
	User: commoncfg.SourceRef{
		Source: commoncfg.EmbeddedSourceValue,
		Value:  "postgres",
	},
	Secret: commoncfg.SourceRef{
		Source: commoncfg.EmbeddedSourceValue,
		Value:  "secret",
	},
	Name: "shopmesh",
	Port: "5433",
}

// NewTestDB starts a Postgres container, connects with the registered models
// and migrates the shared schema. Tenant schemas are created by the tests
// through the repository, the same way production provisions them.
func NewTestDB(tb testing.TB) *multitenancy.DB {
	tb.Helper()

	dbCfg := TestDB
	StartPostgresSQL(tb, &dbCfg)

	dbCon, err := db.StartDBConnection(tb.Context(), dbCfg, []config.Database{})
	require.NoError(tb, err)

	tb.Cleanup(func() {
		sqlDB, _ := dbCon.DB.DB()
		sqlDB.Close()
	})

	require.NoError(tb, dbCon.MigrateSharedModels(tb.Context()))

	return dbCon
}
