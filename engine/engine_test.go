package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freeeve/jsondb/dberr"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{LogPath: filepath.Join(t.TempDir(), "db.log")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func exec(t *testing.T, db *DB, program string) string {
	t.Helper()
	out, err := db.Exec([]byte(program))
	require.NoError(t, err)
	return string(out)
}

func TestArithmeticScenarios(t *testing.T) {
	db := openTestDB(t)
	require.Equal(t, "3", exec(t, db, `{"+":[{"val":1},{"val":2}]}`))
	require.Equal(t, "[3,4,5]", exec(t, db, `{"+":[{"val":[1,2,3]},{"val":2}]}`))
	require.Equal(t, `"abcdef"`, exec(t, db, `{"+":[{"val":"abc"},{"val":"def"}]}`))
}

func TestAggregateScenarios(t *testing.T) {
	db := openTestDB(t)
	require.Equal(t, "3.0", exec(t, db, `{"avg":{"val":[1,2,3,4,5]}}`))
	require.Equal(t, "[4,1,2,3]", exec(t, db, `{"unique":{"val":[4,1,1,2,2,2,3]}}`))
}

func TestSetThenSumSequence(t *testing.T) {
	db := openTestDB(t)
	out := exec(t, db, `[{"set":["x",{"val":[10,20,30]}]},{"sum":{"get":"x"}}]`)
	require.Equal(t, "[null,60]", out)
}

func TestIfScenario(t *testing.T) {
	db := openTestDB(t)
	out := exec(t, db, `{"if":[{"==":[{"val":1},{"val":1}]},{"val":"yes"},{"val":"no"}]}`)
	require.Equal(t, `"yes"`, out)
}

func TestIfOnNonBoolIsBadType(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec([]byte(`{"if":[{"val":1},{"val":"yes"},{"val":"no"}]}`))
	require.Error(t, err)
	require.ErrorIs(t, err, dberr.New(dberr.BadType))
}

func TestSetGetLaw(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec([]byte(`{"set":["k",{"val":{"a":1}}]}`))
	require.NoError(t, err)
	_, err = db.Exec([]byte(`{"set":["other",{"val":42}]}`))
	require.NoError(t, err)
	out := exec(t, db, `{"get":"k"}`)
	require.JSONEq(t, `{"a":1}`, out)
}

func TestDivByIntegerZeroWidensToFloat(t *testing.T) {
	db := openTestDB(t)
	out := exec(t, db, `{"/":[{"val":1},{"val":0}]}`)
	require.Equal(t, "+Inf", out)
}

func TestEvalTwoStageMacro(t *testing.T) {
	db := openTestDB(t)
	// Stage one evaluates to the literal JSON `{"val":5}`, which is
	// itself a program that evaluates to 5.
	out := exec(t, db, `{"eval":{"val":{"val":5}}}`)
	require.Equal(t, "5", out)
}

func TestWatcherFiresExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec([]byte(`{"set":["src",{"val":1}]}`))
	require.NoError(t, err)
	_, err = db.Exec([]byte(`{"set":["mirror",{"val":0}]}`))
	require.NoError(t, err)
	_, err = db.Exec([]byte(`{"set":["hits",{"val":0}]}`))
	require.NoError(t, err)
	_, err = db.Exec([]byte(`{"watch":["src",{"set":["mirror",{"get":"src"}]}]}`))
	require.NoError(t, err)
	_, err = db.Exec([]byte(`{"watch":["src",{"set":["hits",{"+":[{"get":"hits"},{"val":1}]}]}]}`))
	require.NoError(t, err)

	_, err = db.Exec([]byte(`{"set":["src",{"val":99}]}`))
	require.NoError(t, err)

	require.Equal(t, "99", exec(t, db, `{"get":"mirror"}`))
	require.Equal(t, "1", exec(t, db, `{"get":"hits"}`))
}

func TestWatchOnMissingKeyReturnsBadKey(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec([]byte(`{"watch":["nope",{"val":1}]}`))
	require.Error(t, err)
	require.ErrorIs(t, err, dberr.New(dberr.BadKey))
}

func TestRmDiscardsValue(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec([]byte(`{"set":["x",{"val":1}]}`))
	require.NoError(t, err)
	out := exec(t, db, `{"rm":"x"}`)
	require.Equal(t, "1", out)
	require.Equal(t, "null", exec(t, db, `{"get":"x"}`))
}

func TestReplayRestoresStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.log")
	db, err := Open(Options{LogPath: path})
	require.NoError(t, err)
	_, err = db.Exec([]byte(`{"set":["x",{"val":7}]}`))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := Open(Options{LogPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	require.Equal(t, "7", exec(t, reopened, `{"get":"x"}`))
}

func TestSqlSelectWhereEndToEnd(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec([]byte(`{"set":["orders",{"val":[
		{"id":1,"status":"paid","amount":10,"region":"us"},
		{"id":2,"status":"pending","amount":20,"region":"us"},
		{"id":3,"status":"paid","amount":30,"region":"eu"}
	]}]}`))
	require.NoError(t, err)

	out := exec(t, db, `{"sql":{
		"from":{"get":"orders"},
		"where":{"==":[{"val":"$status"},{"val":"paid"}]},
		"select":{"id":{"val":"$id"},"amt":{"val":"$amount"}}
	}}`)
	require.JSONEq(t, `[{"id":1,"amt":10},{"id":3,"amt":30}]`, out)
}
