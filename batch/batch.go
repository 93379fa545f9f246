// SPDX-License-Identifier: MIT

// Package batch parses several inputs concurrently on a bounded worker pool.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/groupstream"
)

type (
	// Job names an input & the function obtaining it.
	Job struct {
		Name string
		Load func(context.Context) (string, error)
	}

	// Result holds the outcome of a Job.
	Result struct {
		Name    string
		Groups  groupstream.List
		Score   int
		Garbage int
		Err     error
	}

	// Runner executes Jobs with a shared Parser.
	Runner struct {
		parser  *groupstream.Parser
		logger  logrus.FieldLogger
		workers int
		debug   bool
	}

	// Option defines the Runner functional option type.
	Option func(*Runner)
)

// Batch errors.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrJobs               = errors.New("job(s) failed")
)

// New instantiates a Runner.
func New(parser *groupstream.Parser, opts ...Option) (r *Runner, err error) {
	r = &Runner{
		parser:  parser,
		logger:  logrus.New(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, r.workers)
	}

	return
}

// WithWorkers configures the pool size.
func WithWorkers(n int) Option { return func(r *Runner) { r.workers = n } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(r *Runner) { r.logger = logger } }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(r *Runner) { r.debug = debug } }

// FileJob reads the named file, "-" reading os.Stdin.
func FileJob(path string) Job {
	return Job{
		Name: path,
		Load: func(context.Context) (string, error) {
			var (
				data []byte
				err  error
			)
			if path == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(path)
			}

			return string(data), err
		},
	}
}

// Run executes the Jobs, returning their Results in Job order.
//
// A failing Job does not stop the others; failures are joined into the returned error.
func (r *Runner) Run(ctx context.Context, jobs []Job) (results []Result, err error) {
	results = make([]Result, len(jobs))
	if len(jobs) < 1 {
		return
	}

	pool, err := ants.NewPool(r.workers, ants.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	errChan := make(chan error, len(jobs))
	wg := new(sync.WaitGroup)

	for index := range jobs {
		index := index
		wg.Add(1)

		submitErr := pool.Submit(func() {
			defer wg.Done()

			results[index] = r.run(ctx, jobs[index])
			if results[index].Err != nil {
				errChan <- results[index].Err
			}
		})
		if submitErr != nil {
			wg.Done()
			results[index] = Result{Name: jobs[index].Name, Err: submitErr}
			errChan <- submitErr
		}
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for e := range errChan {
		errs = append(errs, e)
	}
	if len(errs) > 0 {
		err = fmt.Errorf("%w: %w", ErrJobs, errors.Join(errs...))
	}

	return
}

func (r *Runner) run(ctx context.Context, job Job) (result Result) {
	result.Name = job.Name

	select {
	case <-ctx.Done():
		result.Err = fmt.Errorf("(%s) %w", job.Name, ctx.Err())
		return
	default:
	}

	input, err := job.Load(ctx)
	if err != nil {
		result.Err = fmt.Errorf("(%s) %w", job.Name, err)
		return
	}

	result.Groups, result.Garbage = r.parser.Parse(input)
	result.Score = result.Groups.Score()

	if r.debug {
		r.logger.Debugf("job (%s): %s", job.Name, spew.Sprint(result))
	}

	return
}
