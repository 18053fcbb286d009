package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Konsultn-Engineering/sqlcmd/cache"
	"github.com/Konsultn-Engineering/sqlcmd/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSqliteConnection(t *testing.T, stmts *cache.StatementCache) *SqlConnection {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	conn := NewSqlConnection(db, dialect.NewSQLiteDialect(), stmts)
	t.Cleanup(func() { conn.Close() })

	exec(t, conn, `CREATE TABLE africa (id INTEGER PRIMARY KEY, name TEXT, sex TEXT)`)
	exec(t, conn, `INSERT INTO africa (id, name, sex) VALUES (1, 'Jumbo', 'male'), (2, 'Dumbo', 'male'), (3, 'Ella', 'female')`)
	return conn
}

func exec(t *testing.T, conn Connection, text string, params ...*Parameter) int64 {
	t.Helper()
	cmd, err := conn.CreateCommand()
	require.NoError(t, err)
	defer cmd.Close()

	cmd.SetCommandText(text)
	for _, p := range params {
		cmd.Parameters().Add(p)
	}
	n, err := cmd.ExecuteNonQuery(context.Background())
	require.NoError(t, err)
	return n
}

func names(t *testing.T, rows Rows) []string {
	t.Helper()
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		out = append(out, name)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestSqlCommandNamedParameters(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, err := conn.CreateCommand()
	require.NoError(t, err)
	defer cmd.Close()

	cmd.SetCommandText("SELECT name FROM africa WHERE sex = @sex ORDER BY id")
	cmd.Parameters().Add(&Parameter{Name: "@sex", Value: "male"})

	rows, err := cmd.ExecuteReader(context.Background(), Default)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jumbo", "Dumbo"}, names(t, rows))
}

func TestSqlCommandPositionalParameters(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, err := conn.CreateCommand()
	require.NoError(t, err)
	defer cmd.Close()

	cmd.SetCommandText("SELECT name FROM africa WHERE id = ?")
	cmd.Parameters().Add(&Parameter{Value: 3})

	v, err := cmd.ExecuteScalar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ella", v)
}

func TestSqlCommandScalarNoRows(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	cmd.SetCommandText("SELECT name FROM africa WHERE id = 99")
	v, err := cmd.ExecuteScalar(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSqlCommandNonQuery(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	n := exec(t, conn, "UPDATE africa SET sex = @sex WHERE id IN (@a, @b)",
		&Parameter{Name: "@sex", Value: "female"},
		&Parameter{Name: "@a", Value: 1},
		&Parameter{Name: "@b", Value: 2},
	)
	assert.Equal(t, int64(2), n)
}

func TestSqlCommandSingleRow(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	cmd.SetCommandText("SELECT name FROM africa ORDER BY id")
	rows, err := cmd.ExecuteReader(context.Background(), SingleRow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jumbo"}, names(t, rows))
}

func TestSqlCommandCloseConnection(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	cmd.SetCommandText("SELECT name FROM africa")
	rows, err := cmd.ExecuteReader(context.Background(), CloseConnection)
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	assert.Error(t, conn.Ping(context.Background()))
}

func TestSqlCommandTableDirect(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	cmd.SetCommandType(TableDirect)
	cmd.SetCommandText("africa")
	rows, err := cmd.ExecuteReader(context.Background(), Default)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "sex"}, cols)
}

func TestSqlCommandEmptyText(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	_, err := cmd.ExecuteNonQuery(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCommandText)
}

func TestSqlCommandClosed(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	cmd.SetCommandText("SELECT 1")

	require.NoError(t, cmd.Close())
	require.NoError(t, cmd.Close())

	_, err := cmd.ExecuteScalar(context.Background())
	assert.ErrorIs(t, err, ErrCommandClosed)
}

func TestSqlCommandDriverErrorPropagates(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	cmd.SetCommandText("SELECT trunk FROM africa")
	_, err := cmd.ExecuteReader(context.Background(), Default)
	assert.Error(t, err)
}

func TestSqlCommandPrepareWithoutCache(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	cmd.SetCommandText("SELECT name FROM africa WHERE id = @id")
	cmd.Parameters().Add(&Parameter{Name: "@id", Value: 2})
	require.NoError(t, cmd.Prepare(context.Background()))

	sc := cmd.(*SqlCommand)
	require.NotNil(t, sc.prepared)

	v, err := cmd.ExecuteScalar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dumbo", v)

	require.NoError(t, cmd.Close())
	assert.Nil(t, sc.prepared)
}

func TestSqlCommandPrepareWithCache(t *testing.T) {
	stmts, err := cache.NewStatementCache(8)
	require.NoError(t, err)
	conn := newSqliteConnection(t, stmts)

	for i := 0; i < 2; i++ {
		cmd, _ := conn.CreateCommand()
		cmd.SetCommandText("SELECT name FROM africa WHERE id = @id")
		cmd.Parameters().Add(&Parameter{Name: "@id", Value: 1})
		require.NoError(t, cmd.Prepare(context.Background()))

		v, err := cmd.ExecuteScalar(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Jumbo", v)
		require.NoError(t, cmd.Close())
	}

	assert.Equal(t, 1, stmts.Len())
}

func TestSqlCommandPrepareError(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	cmd, _ := conn.CreateCommand()
	defer cmd.Close()

	cmd.SetCommandText("SELEC broken")
	assert.Error(t, cmd.Prepare(context.Background()))
}

func TestSqlTransaction(t *testing.T) {
	conn := newSqliteConnection(t, nil)
	ctx := context.Background()

	count := func() any {
		cmd, _ := conn.CreateCommand()
		defer cmd.Close()
		cmd.SetCommandText("SELECT COUNT(*) FROM africa")
		v, err := cmd.ExecuteScalar(ctx)
		require.NoError(t, err)
		return v
	}

	insert := func(tx Transaction, id int) {
		cmd, _ := conn.CreateCommand()
		defer cmd.Close()
		require.NoError(t, cmd.SetTransaction(tx))
		assert.Equal(t, tx, cmd.Transaction())
		cmd.SetCommandText("INSERT INTO africa (id, name, sex) VALUES (@id, 'Calf', 'female')")
		cmd.Parameters().Add(&Parameter{Name: "@id", Value: id})
		_, err := cmd.ExecuteNonQuery(ctx)
		require.NoError(t, err)
	}

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	insert(tx, 10)
	require.NoError(t, tx.Rollback(ctx))
	assert.Equal(t, int64(3), count())

	tx, err = conn.Begin(ctx)
	require.NoError(t, err)
	insert(tx, 11)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, int64(4), count())
}

func TestSqlCommandTransactionMismatch(t *testing.T) {
	a := newSqliteConnection(t, nil)
	b := newSqliteConnection(t, nil)
	ctx := context.Background()

	tx, err := b.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	cmd, _ := a.CreateCommand()
	defer cmd.Close()
	assert.ErrorIs(t, cmd.SetTransaction(tx), ErrTransactionMismatch)
	assert.Nil(t, cmd.Transaction())

	require.NoError(t, cmd.SetTransaction(nil))
}
