package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// IngestError marks a dataset source that could not be loaded. It is
// always fatal at startup: the dashboard never serves partial data.
type IngestError struct {
	Source string
	Err    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Source, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

func ingestErr(source string, err error) error {
	return &IngestError{Source: source, Err: err}
}

// header maps column names to indexes, trimming a UTF-8 BOM from the
// first cell. "ï»¿" is what the BOM bytes turn into after latin-1
// decoding, so both spellings are handled.
type header map[string]int

func newHeader(cells []string) header {
	if len(cells) > 0 {
		cells[0] = strings.TrimPrefix(cells[0], "\uFEFF")
		cells[0] = strings.TrimPrefix(cells[0], "ï»¿")
	}
	h := header{}
	for i, c := range cells {
		h[strings.TrimSpace(c)] = i
	}
	return h
}

func (h header) require(source string, cols ...string) error {
	for _, c := range cols {
		if _, ok := h[c]; !ok {
			return ingestErr(source, fmt.Errorf("missing required column %q", c))
		}
	}
	return nil
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// readLatin1CSV reads a latin-1 encoded delimited file into raw records.
// Both government CSV exports use latin-1, not UTF-8.
func readLatin1CSV(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(bufio.NewReader(f)))
	r.Comma = comma
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func loadHomicides(path string) ([]Homicide, error) {
	records, err := readLatin1CSV(path, ';')
	if err != nil {
		return nil, ingestErr(path, err)
	}
	if len(records) < 1 {
		return nil, ingestErr(path, io.ErrUnexpectedEOF)
	}

	h := newHeader(records[0])
	if err := h.require(path, "Provincia", "Tipo Muert.", "Arma", "Sexo"); err != nil {
		return nil, err
	}

	out := make([]Homicide, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, Homicide{
			Province:  h.get(rec, "Provincia"),
			DeathType: h.get(rec, "Tipo Muert."),
			Weapon:    h.get(rec, "Arma"),
			Sex:       h.get(rec, "Sexo"),
		})
	}
	return out, nil
}

func loadAttractions(path string) ([]Attraction, error) {
	records, err := readLatin1CSV(path, ',')
	if err != nil {
		return nil, ingestErr(path, err)
	}
	if len(records) < 1 {
		return nil, ingestErr(path, io.ErrUnexpectedEOF)
	}

	h := newHeader(records[0])
	if err := h.require(path, "nombre", "categoria", "tipo", "lat", "lon"); err != nil {
		return nil, err
	}

	out := make([]Attraction, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, Attraction{
			Name:     h.get(rec, "nombre"),
			Category: h.get(rec, "categoria"),
			Type:     h.get(rec, "tipo"),
			Lat:      h.get(rec, "lat"),
			Lon:      h.get(rec, "lon"),
		})
	}
	return out, nil
}

func loadHazards(path string) ([]HazardEvent, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, ingestErr(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ingestErr(path, fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ingestErr(path, err)
	}
	if len(rows) < 1 {
		return nil, ingestErr(path, io.ErrUnexpectedEOF)
	}

	h := newHeader(rows[0])
	if err := h.require(path, "EVENTO", "PROVINCIA", "CANTON", "DESCRIPCION", "LATITUD", "LONGITUD"); err != nil {
		return nil, err
	}

	out := make([]HazardEvent, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		out = append(out, HazardEvent{
			EventType:   h.get(rec, "EVENTO"),
			Province:    h.get(rec, "PROVINCIA"),
			Canton:      h.get(rec, "CANTON"),
			Description: h.get(rec, "DESCRIPCION"),
			Lat:         h.get(rec, "LATITUD"),
			Lon:         h.get(rec, "LONGITUD"),
		})
	}
	return out, nil
}
