// Package fileproc runs per-file work across a bounded pool of workers, each
// holding its own tree-sitter parser.
package fileproc

import (
	"context"
	"fmt"
	"runtime"

	"github.com/panbanda/clrd/pkg/parser"
	"github.com/sourcegraph/conc/pool"
)

// ProcessingError ties a failure to the file that caused it.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors lists the files that failed, in input order.
// It is not safe for concurrent use.
type ProcessingErrors struct {
	Errors []ProcessingError
}

// Add records a failure for path.
func (e *ProcessingErrors) Add(path string, err error) {
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
}

// HasErrors reports whether anything failed. Safe on a nil receiver.
func (e *ProcessingErrors) HasErrors() bool {
	return e.Len() > 0
}

// Len is the number of failed files. Safe on a nil receiver.
func (e *ProcessingErrors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Errors)
}

func (e *ProcessingErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
	}
}

// ProgressFunc fires once per file, after fn returns or the file is skipped.
type ProgressFunc func()

// DefaultWorkers is one worker per schedulable CPU.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// MapFiles applies fn to every file on DefaultWorkers goroutines.
// Successful results keep the order of files; failed files are left out of
// the results and reported in the returned *ProcessingErrors, which is nil
// when nothing failed.
func MapFiles[T any](ctx context.Context, files []string, fn func(*parser.Parser, string) (T, error)) ([]T, *ProcessingErrors) {
	return MapFilesN(ctx, files, 0, fn, nil)
}

// MapFilesWithProgress is MapFiles with a per-file callback.
func MapFilesWithProgress[T any](ctx context.Context, files []string, fn func(*parser.Parser, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	return MapFilesN(ctx, files, 0, fn, onProgress)
}

// slot holds one file's outcome. Each worker writes only its own slot.
type slot[T any] struct {
	value T
	err   error
}

// MapFilesN is MapFiles with an explicit worker count; maxWorkers <= 0
// means DefaultWorkers. Files that have not started when ctx is cancelled
// fail with ctx.Err().
func MapFilesN[T any](ctx context.Context, files []string, maxWorkers int, fn func(*parser.Parser, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers()
	}

	slots := make([]slot[T], len(files))
	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			if onProgress != nil {
				defer onProgress()
			}
			if err := ctx.Err(); err != nil {
				slots[i].err = err
				return nil
			}

			psr := parser.New()
			defer psr.Close()
			slots[i].value, slots[i].err = fn(psr, path)
			// A failing file is recorded, never returned, so the pool keeps going.
			return nil
		})
	}
	_ = p.Wait()

	results := make([]T, 0, len(files))
	var errs *ProcessingErrors
	for i, s := range slots {
		if s.err != nil {
			if errs == nil {
				errs = &ProcessingErrors{}
			}
			errs.Add(files[i], s.err)
			continue
		}
		results = append(results, s.value)
	}
	return results, errs
}
