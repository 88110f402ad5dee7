package io

import (
	"fmt"
	"io"
	"os"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/pipeline"
)

// ReadLinesCSV reads a line list: position, label and an optional font
// size per row.
func ReadLinesCSV(r io.Reader) ([]pipeline.Line, error) {
	var lines []pipeline.Line
	err := records(r, 2, false, func(n int, rec []string) error {
		pos, err := parseFloat(n, "position", rec[0])
		if err != nil {
			return err
		}
		l := pipeline.Line{Position: pos, Label: rec[1]}
		if len(rec) > 2 && rec[2] != "" {
			if l.Size, err = parseFloat(n, "size", rec[2]); err != nil {
				return err
			}
		}
		lines = append(lines, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "no lines")
	}
	return lines, nil
}

// ImportLines reads a line list file.
func ImportLines(path string) ([]pipeline.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := ReadLinesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}
