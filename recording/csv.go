package recording

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

// CSVBackend writes report entries to a CSV file.
type CSVBackend struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVBackend creates a backend that writes to filename + ".csv".
func NewCSVBackend(filename string) *CSVBackend {
	file, err := os.OpenFile(filename+".csv",
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		panic(err)
	}

	b := &CSVBackend{
		file:   file,
		writer: csv.NewWriter(file),
	}

	header := []string{"Rank", "Function", "Calls", "ElapsedSec", "DefinedAt"}
	err = b.writer.Write(header)
	if err != nil {
		panic(err)
	}

	atexit.Register(func() { b.Flush() })

	return b
}

// AddEntry writes one report row.
func (b *CSVBackend) AddEntry(entry ReportEntry) {
	err := b.writer.Write([]string{
		fmt.Sprintf("%d", entry.Rank),
		entry.Function,
		fmt.Sprintf("%d", entry.Calls),
		fmt.Sprintf("%.10f", entry.ElapsedSec),
		entry.DefinedAt,
	})
	if err != nil {
		panic(err)
	}
}

// Flush flushes the CSV writer.
func (b *CSVBackend) Flush() {
	b.writer.Flush()
}
