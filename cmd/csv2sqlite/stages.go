package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"github.com/jmoiron/sqlx"
)

var errNonNumericID = errors.New("non-numeric identifier")

// convertFunc - zamiana wiersza pliku csv na wartości kolumn tabeli
type convertFunc func(row []string) ([]interface{}, error)

// resolveFunc - uzupełnia wartości wyliczane na podstawie danych już
// zapisanych w bazie
type resolveFunc func(q sqlx.Queryer, row []string, values []interface{}) error

// stage - jeden plik źródłowy ładowany do jednej tabeli
type stage struct {
	File  string
	Table *table
	// Shape - reguła walidatora dla liczby kolumn wiersza
	Shape   string
	Convert convertFunc
	Resolve resolveFunc
}

// unresolvedError - brak rekordu, do którego odwołuje się wiersz
type unresolvedError struct {
	Entity string
	Value  string
	Key    string
	ID     int
}

func (e *unresolvedError) Error() string {
	return fmt.Sprintf("No matching %s found for '%s', skipping %s %d", e.Entity, e.Value, e.Key, e.ID)
}

func exactly(n int) string {
	return fmt.Sprintf("len=%d", n)
}

func between(lo, hi int) string {
	return fmt.Sprintf("min=%d,max=%d", lo, hi)
}

// stages - etapy ładowania danych, w kolejności zależności
func (app *application) stages() []stage {
	return []stage{
		{
			File:    "printerbio.csv",
			Table:   printersTable,
			Shape:   exactly(7),
			Convert: convertPrinter,
		},
		{
			File:    "printerrelationships.csv",
			Table:   relationshipsTable,
			Shape:   exactly(5),
			Convert: relationshipConverter(app.validate),
		},
		{
			File:    "newspaper_series.csv",
			Table:   newspaperSeriesTable,
			Shape:   between(2, 3),
			Convert: convertSeries,
		},
		{
			File:    "newspapers.csv",
			Table:   newspapersTable,
			Shape:   exactly(7),
			Convert: convertNewspaper,
		},
		{
			File:    "alltyrannymentions.csv",
			Table:   tyrannyMentionsTable,
			Shape:   exactly(5),
			Convert: convertMention,
			Resolve: resolveMentionNewspaper,
		},
	}
}

// atoi - liczba całkowita z pola tekstowego, otaczające spacje są pomijane
func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func convertPrinter(row []string) ([]interface{}, error) {
	id, err := atoi(row[0])
	if err != nil {
		return nil, err
	}

	return []interface{}{id, row[1], row[2], row[3], row[4], row[5], row[6]}, nil
}

// relationshipConverter - identyfikatory relacji i obu drukarzy muszą być
// ciągami cyfr, inne wiersze są pomijane zanim dojdzie do konwersji
func relationshipConverter(validate *validator.Validate) convertFunc {
	return func(row []string) ([]interface{}, error) {
		for _, field := range row[:3] {
			if err := validate.Var(field, "number"); err != nil {
				return nil, fmt.Errorf("%w: %q", errNonNumericID, field)
			}
		}

		ids := make([]interface{}, 0, 3)
		for _, field := range row[:3] {
			id, err := atoi(field)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}

		return append(ids, row[3], row[4]), nil
	}
}

func convertSeries(row []string) ([]interface{}, error) {
	id, err := atoi(row[0])
	if err != nil {
		return nil, err
	}

	notes := ""
	if len(row) == 3 {
		notes = row[2]
	}

	return []interface{}{id, row[1], notes}, nil
}

// convertNewspaper - printer_id zapisywany jest bez konwersji, typ nadaje
// mu kolumna INTEGER
func convertNewspaper(row []string) ([]interface{}, error) {
	id, err := atoi(row[0])
	if err != nil {
		return nil, err
	}
	seriesID, err := atoi(row[1])
	if err != nil {
		return nil, err
	}
	startYear, err := atoi(row[3])
	if err != nil {
		return nil, err
	}
	endYear, err := atoi(row[4])
	if err != nil {
		return nil, err
	}

	return []interface{}{id, seriesID, row[2], startYear, endYear, row[5], row[6]}, nil
}

// convertMention - newspaper_id (pozycja 1) zostaje pusty, wypełnia go
// resolveMentionNewspaper
func convertMention(row []string) ([]interface{}, error) {
	id, err := atoi(strings.Trim(row[0], `"`))
	if err != nil {
		return nil, err
	}
	page, err := atoi(row[3])
	if err != nil {
		return nil, err
	}

	return []interface{}{id, nil, row[1], row[2], page, row[4]}, nil
}

// resolveMentionNewspaper - tytuł gazety z wiersza zamieniany na newspaper_id
func resolveMentionNewspaper(q sqlx.Queryer, row []string, values []interface{}) error {
	title := strings.TrimSpace(row[4])

	id, found, err := findNewspaper(q, title)
	if err != nil {
		return err
	}
	if !found {
		return &unresolvedError{Entity: "newspaper", Value: title, Key: "mention_id", ID: values[0].(int)}
	}

	values[1] = id
	return nil
}
