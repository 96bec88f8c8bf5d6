package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// openStore - otwiera (lub tworzy) plik bazy sqlite; klucze obce są tylko
// deklaracją, sqlite ich nie wymusza
func openStore(filename string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=off", filename))
	if err != nil {
		return nil, err
	}

	// jedno połączenie przez cały czas działania programu
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// findNewspaper - wyszukuje gazetę o podanym tytule, zwraca id pierwszego
// pasującego rekordu; found == false gdy takiej gazety nie ma
func findNewspaper(q sqlx.Queryer, title string) (id int64, found bool, err error) {
	query, args := newspaperByTitleSQL(title)

	err = sqlx.Get(q, &id, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

// funkcja zlicza rekordy w tabeli
func (app *application) countRec(q sqlx.Queryer, tableName string) {
	var count int

	if err := sqlx.Get(q, &count, countRecSQL(tableName)); err != nil {
		app.errorLog.Printf("Error counting rows in %s table: %v", tableName, err)
		return
	}
	app.infoLog.Printf("Rows stored in table '%s': %d", tableName, count)
}

// raport z liczbą rekordów w tabelach
func (app *application) countReport(q sqlx.Queryer) {
	for _, t := range allTables() {
		app.countRec(q, t.Name)
	}
}

// session - praca na otwartej bazie. Transakcja zaczyna się dopiero przy
// pierwszym zapisie danych, zmiany schematu wykonane wcześniej są od razu
// trwałe. Zamknięcie bez commit odrzuca niezatwierdzone zapisy.
type session struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func newSession(db *sqlx.DB) *session {
	return &session{db: db}
}

// ext - otwarta transakcja, a jeśli jej jeszcze nie ma - sama baza
func (s *session) ext() sqlx.Ext {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// begin - zwraca otwartą transakcję, rozpoczynając ją przy pierwszym wywołaniu
func (s *session) begin() (*sqlx.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	s.tx = tx
	return tx, nil
}

// commit - zatwierdza zapisy; bez otwartej transakcji nie ma nic do zrobienia
func (s *session) commit() error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil
	return tx.Commit()
}

// close - zamyka połączenie z bazą, niezatwierdzone zapisy przepadają
func (s *session) close() error {
	if s.tx != nil {
		s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}
