// Package placement runs decal placement off the caller's goroutine. A Worker
// owns one Decal for its whole life and applies requests to it one at a
// time; PlaceAll places independent decals in parallel, one Decal each.
package placement

import (
	"context"
	"errors"
	"io"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/notargets/expmap/expmap"
	"github.com/notargets/expmap/halfedge"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrStopped = errors.New("placement: worker stopped")

type Request struct {
	ID        uuid.UUID // assigned on submit when zero
	Vertex    int
	Translate mgl64.Vec2
	Scale     float64
	StopDist  float64
	Rotation  float64
}

type Result struct {
	ID      uuid.UUID
	Vertex  int
	UVs     []float32
	Points  int
	Elapsed time.Duration
}

type job struct {
	req   Request
	reply chan reply
}

type reply struct {
	res Result
	err error
}

type Worker struct {
	soup      halfedge.Soup
	normalize bool
	log       logrus.FieldLogger

	jobs chan job
	done chan struct{}
	err  error // set before done is closed
}

type options struct {
	log logrus.FieldLogger
}

type Option func(*options)

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{log: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewWorker prepares a worker for soup. The mesh and solver are built by Run.
func NewWorker(soup halfedge.Soup, normalize bool, opts ...Option) *Worker {
	return &Worker{
		soup:      soup,
		normalize: normalize,
		log:       buildOptions(opts).log,
		jobs:      make(chan job),
		done:      make(chan struct{}),
	}
}

// Run builds the decal and serves requests until ctx ends. It returns the
// build error, or ctx.Err() after a clean stop. Run must be called once.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)
	start := time.Now()
	decal, err := expmap.NewDecal(w.soup, w.normalize)
	if err != nil {
		w.err = err
		return err
	}
	w.log.WithFields(logrus.Fields{
		"vertices": len(decal.Mesh.Vertices),
		"faces":    len(decal.Mesh.Faces),
		"elapsed":  time.Since(start),
	}).Info("placement worker ready")

	for {
		select {
		case <-ctx.Done():
			w.err = ctx.Err()
			return w.err
		case j := <-w.jobs:
			res, err := place(decal, j.req)
			logResult(w.log, j.req, res, err)
			j.reply <- reply{res: res, err: err}
		}
	}
}

// Submit hands req to the worker and waits for its result.
func (w *Worker) Submit(ctx context.Context, req Request) (Result, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	j := job{req: req, reply: make(chan reply, 1)}
	select {
	case w.jobs <- j:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-w.done:
		return Result{}, w.stopErr()
	}
	select {
	case r := <-j.reply:
		return r.res, r.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (w *Worker) stopErr() error {
	if w.err != nil {
		return errors.Join(ErrStopped, w.err)
	}
	return ErrStopped
}

func logResult(log logrus.FieldLogger, req Request, res Result, err error) {
	entry := log.WithFields(logrus.Fields{
		"request":  req.ID,
		"source":   req.Vertex,
		"stopDist": req.StopDist,
	})
	if err != nil {
		entry.WithError(err).Warn("placement failed")
		return
	}
	entry.WithFields(logrus.Fields{
		"points":  res.Points,
		"elapsed": res.Elapsed,
	}).Debug("placement done")
}

func place(d *expmap.Decal, req Request) (Result, error) {
	start := time.Now()
	if err := d.CalculateUV(req.Vertex, req.Translate, req.Scale, req.StopDist); err != nil {
		return Result{}, err
	}
	if err := d.SetRotation(req.Rotation); err != nil {
		return Result{}, err
	}
	return Result{
		ID:      req.ID,
		Vertex:  req.Vertex,
		UVs:     d.UVs(),
		Points:  len(d.Chart().Points),
		Elapsed: time.Since(start),
	}, nil
}

// PlaceAll places every request on its own copy of soup, in parallel.
// Results are in request order. The first failure cancels the rest.
func PlaceAll(ctx context.Context, soup halfedge.Soup, normalize bool, reqs []Request, opts ...Option) ([]Result, error) {
	o := buildOptions(opts)
	out := make([]Result, len(reqs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, req := range reqs {
		if req.ID == uuid.Nil {
			req.ID = uuid.New()
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			decal, err := expmap.NewDecal(soup, normalize)
			if err != nil {
				return err
			}
			res, err := place(decal, req)
			logResult(o.log, req, res, err)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
