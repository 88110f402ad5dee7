package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
)

// newReader returns a CSV reader for the loose column format shared by
// spectrum and line files.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return cr
}

// fields splits whitespace-separated rows that the CSV reader returned as
// a single field.
func fields(rec []string, splitSpace bool) []string {
	if splitSpace && len(rec) == 1 {
		return strings.Fields(rec[0])
	}
	out := make([]string, len(rec))
	for i, f := range rec {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

// records calls fn for every data row. A first row whose leading field is
// not a number is treated as a header. With splitSpace, rows without a
// comma are split on whitespace.
func records(r io.Reader, minFields int, splitSpace bool, fn func(line int, rec []string) error) error {
	cr := newReader(r)
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "read")
		}
		line, _ := cr.FieldPos(0)
		rec = fields(rec, splitSpace)
		if len(rec) == 0 || rec[0] == "" {
			continue
		}
		if first {
			first = false
			if _, err := strconv.ParseFloat(rec[0], 64); err != nil {
				continue
			}
		}
		if len(rec) < minFields {
			return lerrors.New(lerrors.ErrCodeInvalidInput, "line %d: want at least %d columns, got %d", line, minFields, len(rec))
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func parseFloat(line int, name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "line %d: %s %q is not a number", line, name, s)
	}
	return v, nil
}

// ReadSpectrumCSV reads wavelength and flux columns from r. Extra columns
// are ignored.
func ReadSpectrumCSV(r io.Reader) (wave, flux []float64, err error) {
	err = records(r, 2, true, func(line int, rec []string) error {
		w, err := parseFloat(line, "wavelength", rec[0])
		if err != nil {
			return err
		}
		f, err := parseFloat(line, "flux", rec[1])
		if err != nil {
			return err
		}
		wave = append(wave, w)
		flux = append(flux, f)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(wave) == 0 {
		return nil, nil, lerrors.New(lerrors.ErrCodeInvalidInput, "no samples")
	}
	return wave, flux, nil
}

// ImportSpectrum reads a spectrum file.
func ImportSpectrum(path string) (wave, flux []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	wave, flux, err = ReadSpectrumCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return wave, flux, nil
}

// WriteSpectrumCSV writes a spectrum with a header row.
func WriteSpectrumCSV(w io.Writer, wave, flux []float64) error {
	if err := lerrors.ValidateCount("wave", len(wave), "flux", len(flux)); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"wave", "flux"}); err != nil {
		return err
	}
	for i := range wave {
		rec := []string{
			strconv.FormatFloat(wave[i], 'g', -1, 64),
			strconv.FormatFloat(flux[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSpectrum writes a spectrum file.
func ExportSpectrum(path string, wave, flux []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSpectrumCSV(f, wave, flux); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
