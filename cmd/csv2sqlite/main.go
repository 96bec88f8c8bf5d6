package main

import (
	"errors"
	"log"
	"os"

	"github.com/go-playground/validator"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	cfg      *Config
	validate *validator.Validate
}

func newApplication(cfg *Config, infoLog, errorLog *log.Logger) *application {
	return &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		cfg:      cfg,
		validate: validator.New(),
	}
}

func main() {
	// logi z informacjami (->konsola) i błędami (->konsola)
	infoLog := log.New(os.Stdout, "INFO: \t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stdout, "ERROR: \t", log.Ldate|log.Ltime|log.Lshortfile)

	cfg, err := loadConfig(configFileName, envFileName)
	if err != nil {
		errorLog.Println(err)
		os.Exit(1)
	}

	app := newApplication(cfg, infoLog, errorLog)

	app.infoLog.Printf("csv2sqlite - loading printers and newspapers data into %s", cfg.OutputFile)

	os.Exit(app.run())
}

// run - ładuje wszystkie pliki do bazy, zwraca kod zakończenia programu.
// Zapisy danych trafiają do jednej transakcji zatwierdzanej po ostatnim
// pliku; przerwanie ładowania zamyka bazę bez zatwierdzania.
func (app *application) run() int {
	db, err := openStore(app.cfg.OutputFile)
	if err != nil {
		app.errorLog.Printf("Error connecting to database: %v", err)
		return 1
	}
	app.infoLog.Printf("Connected to %s", app.cfg.OutputFile)

	s := newSession(db)

	for _, st := range app.stages() {
		if err := st.Table.create(s.ext()); err != nil {
			app.errorLog.Printf("Error creating %s table: %v", st.Table.Name, err)
			app.closeStore(s)
			return 1
		}
		app.infoLog.Printf("Created %s table", st.Table.Name)

		sum, err := app.loadStage(s, st)
		if err != nil {
			if errors.Is(err, errFileNotFound) {
				app.errorLog.Printf("Error: %s not found", st.File)
			} else {
				app.errorLog.Printf("Unexpected error reading %s: %v", st.File, err)
			}
			app.closeStore(s)
			return 1
		}
		app.report(sum)
	}

	if err := s.commit(); err != nil {
		app.errorLog.Printf("Error committing changes: %v", err)
	} else {
		app.infoLog.Printf("All changes committed to the database")
		app.countReport(db)
	}

	app.closeStore(s)
	return 0
}

func (app *application) closeStore(s *session) {
	if err := s.close(); err != nil {
		app.errorLog.Printf("Error closing database: %v", err)
		return
	}
	app.infoLog.Printf("Database connection closed")
}
