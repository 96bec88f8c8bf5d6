package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

var errFileNotFound = errors.New("file not found")

// skipReason - powód pominięcia wiersza
type skipReason string

const (
	skipShape      skipReason = "shape"
	skipNonNumeric skipReason = "non_numeric_id"
	skipConversion skipReason = "conversion"
	skipUnresolved skipReason = "unresolved"
	skipStore      skipReason = "store"
)

// summary - wynik ładowania jednego pliku
type summary struct {
	File     string
	Table    string
	Inserted int
	Skipped  map[skipReason]int
}

func (s *summary) skippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

func (s *summary) reasons() string {
	keys := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		keys = append(keys, string(r))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.Skipped[skipReason(k)]))
	}
	return strings.Join(parts, ", ")
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// lineCounter - liczy linie przeczytane z pliku; czytnik csv pomija puste
// linie, a każda z nich jest wierszem do odrzucenia
type lineCounter struct {
	r     io.Reader
	lines int
	last  byte
}

func (c *lineCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.lines += bytes.Count(p[:n], []byte{'\n'})
	if n > 0 {
		c.last = p[n-1]
	}
	return n, err
}

// total - liczba linii w pliku, ostatnia może nie mieć znaku końca linii
func (c *lineCounter) total() int {
	if c.last != 0 && c.last != '\n' {
		return c.lines + 1
	}
	return c.lines
}

// recordEnd - numer ostatniej linii właśnie przeczytanego rekordu
func recordEnd(r *csv.Reader, row []string) int {
	last := len(row) - 1
	line, _ := r.FieldPos(last)
	return line + strings.Count(row[last], "\n")
}

// loadStage - ładuje plik źródłowy do tabeli: pomija nagłówek, każdy wiersz
// waliduje, konwertuje, opcjonalnie uzupełnia o dane z bazy i zapisuje.
// Błędy pojedynczych wierszy trafiają do logu, zwracany błąd oznacza, że
// pliku nie dało się przeczytać.
func (app *application) loadStage(s *session, st stage) (*summary, error) {
	path := filepath.Join(app.cfg.DataPath, st.File)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", st.File, errFileNotFound)
		}
		return nil, err
	}
	defer f.Close()

	lc := &lineCounter{r: f}
	r := newCSVReader(lc)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	end := recordEnd(r, header)

	// transakcja i zapytanie dopiero przy pierwszym zapisie
	var stmt *sqlx.Stmt
	defer func() {
		if stmt != nil {
			stmt.Close()
		}
	}()
	insert := func(values []interface{}) error {
		if stmt == nil {
			tx, err := s.begin()
			if err != nil {
				return err
			}
			if stmt, err = tx.Preparex(st.Table.insertSQL()); err != nil {
				return err
			}
		}
		_, err := stmt.Exec(values...)
		return err
	}

	sum := &summary{File: st.File, Table: st.Table.Name, Skipped: make(map[skipReason]int)}
	load := func(row []string) {
		if reason := app.loadRow(s, insert, st, row); reason != "" {
			sum.Skipped[reason]++
			return
		}
		sum.Inserted++
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			for i := end; i < lc.total(); i++ {
				load([]string{})
			}
			break
		}
		if err != nil {
			return nil, err
		}

		start, _ := r.FieldPos(0)
		for i := end + 1; i < start; i++ {
			load([]string{})
		}
		end = recordEnd(r, row)

		load(row)
	}

	return sum, nil
}

// loadRow - zapis jednego wiersza, zwraca powód pominięcia lub "" gdy
// wiersz został dodany do tabeli
func (app *application) loadRow(s *session, insert func([]interface{}) error, st stage, row []string) skipReason {
	if err := app.validate.Var(row, st.Shape); err != nil {
		app.errorLog.Printf("Skipping invalid row in %s: %q", st.File, row)
		return skipShape
	}

	values, err := st.Convert(row)
	if err != nil {
		if errors.Is(err, errNonNumericID) {
			app.errorLog.Printf("Skipping non-numeric ID row in %s: %q", st.File, row)
			return skipNonNumeric
		}
		app.errorLog.Printf("Error converting row in %s: %q, Error: %v", st.File, row, err)
		return skipConversion
	}

	if st.Resolve != nil {
		if err := st.Resolve(s.ext(), row, values); err != nil {
			var unresolved *unresolvedError
			if errors.As(err, &unresolved) {
				app.errorLog.Println(unresolved.Error())
				return skipUnresolved
			}
			app.errorLog.Printf("Database error resolving row in %s: %q, Error: %v", st.File, row, err)
			return skipStore
		}
	}

	if err := insert(values); err != nil {
		app.errorLog.Printf("Database error inserting row in %s: %q, Error: %v", st.File, row, err)
		return skipStore
	}

	return ""
}

// report - podsumowanie ładowania pliku
func (app *application) report(sum *summary) {
	app.infoLog.Printf("Inserted %d rows into %s table", sum.Inserted, sum.Table)
	if n := sum.skippedTotal(); n > 0 {
		app.infoLog.Printf("Skipped %d rows in %s (%s)", n, sum.File, sum.reasons())
	}
}
