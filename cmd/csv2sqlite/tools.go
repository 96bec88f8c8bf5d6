package main

import (
	"os"
)

// czy plik istnieje
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}
