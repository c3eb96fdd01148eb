package logger

import (
	"log"
	"os"
)

// New returns the stdout logger shared by the ingest commands.
func New() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}
