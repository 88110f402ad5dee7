package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/pipeline"
)

// JobFile is the decoded form of a TOML job file.
type JobFile struct {
	// Spectrum is the path of the spectrum file. It may be empty when the
	// spectrum is supplied separately.
	Spectrum string           `toml:"spectrum"`
	Layout   pipeline.Options `toml:"layout"`
	Lines    []pipeline.Line  `toml:"line"`
}

// DecodeJob decodes a TOML job file from r without loading the spectrum.
func DecodeJob(r io.Reader) (JobFile, error) {
	var jf JobFile
	md, err := toml.NewDecoder(r).Decode(&jf)
	if err != nil {
		return JobFile{}, lerrors.Wrap(lerrors.ErrCodeInvalidConfig, err, "decode job")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return JobFile{}, lerrors.New(lerrors.ErrCodeInvalidConfig, "unknown keys in job: %s", strings.Join(keys, ", "))
	}
	for i, l := range jf.Lines {
		if l.Label == "" {
			return JobFile{}, lerrors.New(lerrors.ErrCodeInvalidConfig, "line %d has no label", i+1)
		}
	}
	return jf, nil
}

// ReadJob reads a job file and the spectrum it names. A relative spectrum
// path is resolved against the job file's directory.
func ReadJob(path string) (pipeline.Job, pipeline.Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return pipeline.Job{}, pipeline.Options{}, err
	}
	defer f.Close()

	jf, err := DecodeJob(f)
	if err != nil {
		return pipeline.Job{}, pipeline.Options{}, fmt.Errorf("%s: %w", path, err)
	}
	job := pipeline.Job{Lines: jf.Lines}
	if jf.Spectrum != "" {
		sp := jf.Spectrum
		if !filepath.IsAbs(sp) {
			sp = filepath.Join(filepath.Dir(path), sp)
		}
		if job.Wave, job.Flux, err = ImportSpectrum(sp); err != nil {
			return pipeline.Job{}, pipeline.Options{}, err
		}
	}
	return job, jf.Layout, nil
}
