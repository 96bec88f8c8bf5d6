package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const (
	printerBioCSV = `id,name,lifespan,affiliation,political_view,notes,source_id
1,Isaiah Thomas,1749-1831,Massachusetts Spy,Patriot,,S1
2,James Rivington,1724-1802,Royal Gazette,Loyalist,"printer, bookseller",S2
x,Bad Id,,,,,S4
4,Too,Few
3,Benjamin Edes,1732-1803,Boston Gazette,Patriot,,S3
`
	relationshipsCSV = `rel_id,printer1_id,printer2_id,relationship,source_id
1,1,3,apprentice,S1
1,2,x,friend,src1
2,1,2,rival,S2
`
	seriesCSV = `series_id,canonical_name,notes
1,Boston Gazette,weekly
2,Massachusetts Spy
3,A,B,C,D
`
	newspapersCSV = `newspaper_id,series_id,title,start_year,end_year,place,printer_id
5,1,Old Gazette,2000,2010,Springfield,3
6,2,Massachusetts Spy,1770,1820,Worcester,1
7,1,Bad Year,17x0,1800,Boston,3
`
	mentionsCSV = `mention_id,aka,date,page_number,newspaper_title
"""10""",tyrant,1775-04-19,2,Old Gazette
11,despot,1776-07-04,3,  Massachusetts Spy
12,oppressor,1777-01-01,1,Unknown Paper
13,tyranny,1778-01-01,4,old gazette
`
)

// testApp - aplikacja z logami zapisywanymi do bufora
type testApp struct {
	*application
	out *bytes.Buffer
}

func newTestApp(t *testing.T, dir string) *testApp {
	t.Helper()

	out := &bytes.Buffer{}
	cfg := &Config{
		DataPath:   dir,
		OutputFile: filepath.Join(dir, "test.db"),
	}
	app := newApplication(cfg, log.New(out, "INFO: ", 0), log.New(out, "ERROR: ", 0))

	return &testApp{application: app, out: out}
}

// writeFixtures - zapisuje komplet plików źródłowych w katalogu
func writeFixtures(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, dir, "printerbio.csv", printerBioCSV)
	writeFile(t, dir, "printerrelationships.csv", relationshipsCSV)
	writeFile(t, dir, "newspaper_series.csv", seriesCSV)
	writeFile(t, dir, "newspapers.csv", newspapersCSV)
	writeFile(t, dir, "alltyrannymentions.csv", mentionsCSV)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// newTestStore - baza sqlite w katalogu tymczasowym
func newTestStore(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := openStore(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// newTestTx - transakcja wycofywana po zakończeniu testu
func newTestTx(t *testing.T, db *sqlx.DB) *sqlx.Tx {
	t.Helper()

	tx, err := db.Beginx()
	require.NoError(t, err)
	t.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}

// newTestSession - sesja na bazie tymczasowej, niezatwierdzone zapisy
// przepadają po zakończeniu testu
func newTestSession(t *testing.T) *session {
	t.Helper()

	s := newSession(newTestStore(t))
	t.Cleanup(func() {
		s.close()
	})
	return s
}

func countRows(t *testing.T, q sqlx.Queryer, tableName string) int {
	t.Helper()

	var n int
	require.NoError(t, sqlx.Get(q, &n, countRecSQL(tableName)))
	return n
}

func tableExists(t *testing.T, q sqlx.Queryer, tableName string) bool {
	t.Helper()

	var n int
	require.NoError(t, sqlx.Get(q, &n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", tableName))
	return n == 1
}
