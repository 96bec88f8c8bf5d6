package main

import (
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
)

// column - kolumna tabeli docelowej, Comment trafia do definicji jako komentarz SQL
type column struct {
	Name    string
	Type    string
	Comment string
}

// table - definicja tabeli w bazie sqlite
type table struct {
	Name string
	// Drop - tabela usuwana i tworzona od nowa przy każdym uruchomieniu
	Drop        bool
	Columns     []column
	ForeignKeys []string
}

var printersTable = &table{
	Name: "printers",
	Drop: true,
	Columns: []column{
		{Name: "printer_id", Type: "INTEGER PRIMARY KEY"},
		{Name: "name", Type: "TEXT"},
		{Name: "lifespan", Type: "TEXT"},
		{Name: "affiliation", Type: "TEXT"},
		{Name: "political_view", Type: "TEXT"},
		{Name: "notes", Type: "TEXT"},
		{Name: "source_id", Type: "TEXT"},
	},
}

var relationshipsTable = &table{
	Name: "relationships",
	Columns: []column{
		{Name: "rel_id", Type: "INTEGER PRIMARY KEY"},
		{Name: "printer1_id", Type: "INTEGER", Comment: "references printers(printer_id), not enforced"},
		{Name: "printer2_id", Type: "INTEGER", Comment: "references printers(printer_id), not enforced"},
		{Name: "relationship", Type: "TEXT"},
		{Name: "source_id", Type: "TEXT"},
	},
}

var newspaperSeriesTable = &table{
	Name: "newspaper_series",
	Columns: []column{
		{Name: "series_id", Type: "INTEGER PRIMARY KEY"},
		{Name: "canonical_name", Type: "TEXT"},
		{Name: "notes", Type: "TEXT"},
	},
}

var newspapersTable = &table{
	Name: "newspapers",
	Drop: true,
	Columns: []column{
		{Name: "newspaper_id", Type: "INTEGER PRIMARY KEY"},
		{Name: "series_id", Type: "INTEGER", Comment: "references newspaper_series(series_id), not enforced"},
		{Name: "title", Type: "TEXT"},
		{Name: "start_year", Type: "INTEGER"},
		{Name: "end_year", Type: "INTEGER"},
		{Name: "place", Type: "TEXT"},
		{Name: "printer_id", Type: "INTEGER", Comment: "references printers(printer_id), not enforced"},
	},
	ForeignKeys: []string{
		"FOREIGN KEY (series_id) REFERENCES newspaper_series(series_id)",
		"FOREIGN KEY (printer_id) REFERENCES printers(printer_id)",
	},
}

var tyrannyMentionsTable = &table{
	Name: "tyranny_mentions",
	Drop: true,
	Columns: []column{
		{Name: "mention_id", Type: "INTEGER PRIMARY KEY"},
		{Name: "newspaper_id", Type: "INTEGER", Comment: "resolved from partof_title against newspapers(title)"},
		{Name: "aka", Type: "TEXT"},
		{Name: "date", Type: "TEXT"},
		{Name: "page_number", Type: "INTEGER"},
		{Name: "partof_title", Type: "TEXT"},
	},
	ForeignKeys: []string{
		"FOREIGN KEY (newspaper_id) REFERENCES newspapers(newspaper_id)",
	},
}

func (t *table) columnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

func (t *table) dropSQL() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", t.Name)
}

func (t *table) createSQL() string {
	ctb := sqlbuilder.SQLite.NewCreateTableBuilder()
	ctb.CreateTable(t.Name).IfNotExists()
	for _, c := range t.Columns {
		def := []string{c.Name, c.Type}
		if c.Comment != "" {
			def = append(def, "/* "+c.Comment+" */")
		}
		ctb.Define(def...)
	}
	for _, fk := range t.ForeignKeys {
		ctb.Define(fk)
	}
	return ctb.String()
}

// insertSQL - zapytanie INSERT z parametrami dla wszystkich kolumn tabeli
func (t *table) insertSQL() string {
	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto(t.Name)
	ib.Cols(t.columnNames()...)
	ib.Values(make([]interface{}, len(t.Columns))...)
	query, _ := ib.Build()
	return query
}

// create - tworzy tabelę, dla tabel przeładowywanych w całości najpierw
// usuwa poprzednią wersję
func (t *table) create(ex sqlx.Execer) error {
	if t.Drop {
		if _, err := ex.Exec(t.dropSQL()); err != nil {
			return fmt.Errorf("drop %s: %w", t.Name, err)
		}
	}
	if _, err := ex.Exec(t.createSQL()); err != nil {
		return fmt.Errorf("create %s: %w", t.Name, err)
	}
	return nil
}

// countRecSQL - liczba rekordów w tabeli
func countRecSQL(name string) string {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("COUNT(*)").From(name)
	query, _ := sb.Build()
	return query
}

// newspaperByTitleSQL - wyszukiwanie id gazety po dokładnym tytule
func newspaperByTitleSQL(title string) (string, []interface{}) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("newspaper_id").
		From(newspapersTable.Name).
		Where(sb.Equal("title", title)).
		Limit(1)
	return sb.Build()
}

// wszystkie tabele bazy, w kolejności ładowania
func allTables() []*table {
	return []*table{
		printersTable,
		relationshipsTable,
		newspaperSeriesTable,
		newspapersTable,
		tyrannyMentionsTable,
	}
}
