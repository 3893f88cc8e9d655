package placement

import (
	"context"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/notargets/expmap/expmap"
	"github.com/notargets/expmap/halfedge"
	"github.com/notargets/expmap/shapes"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func direct(t *testing.T, soup halfedge.Soup, req Request) []float32 {
	t.Helper()
	d, err := expmap.NewDecal(soup, true)
	require.NoError(t, err)
	require.NoError(t, d.CalculateUV(req.Vertex, req.Translate, req.Scale, req.StopDist))
	require.NoError(t, d.SetRotation(req.Rotation))
	return d.UVs()
}

func startWorker(t *testing.T, soup halfedge.Soup, opts ...Option) (*Worker, context.CancelFunc, <-chan error) {
	t.Helper()
	w := NewWorker(soup, true, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	t.Cleanup(cancel)
	return w, cancel, errc
}

func TestWorker(t *testing.T) {
	soup := shapes.Icosphere(1)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	w, cancel, errc := startWorker(t, soup, WithLogger(logger))

	req := Request{Vertex: 3, Translate: mgl64.Vec2{0.1, 0}, Scale: 1, StopDist: 1, Rotation: 0.25}
	res, err := w.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, 3, res.Vertex)
	assert.Positive(t, res.Points)
	assert.Equal(t, direct(t, soup, req), res.UVs)

	id := uuid.New()
	res, err = w.Submit(context.Background(), Request{ID: id, Vertex: 0, Scale: 1, StopDist: 0.5})
	require.NoError(t, err)
	assert.Equal(t, id, res.ID)

	// A failed request leaves the worker serving.
	_, err = w.Submit(context.Background(), Request{Vertex: 1000, Scale: 1, StopDist: 1})
	assert.ErrorIs(t, err, expmap.ErrVertexOutOfRange)
	_, err = w.Submit(context.Background(), Request{Vertex: 1, Scale: 1, StopDist: 1})
	assert.NoError(t, err)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	_, err = w.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrStopped)

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "placement worker ready")
	assert.Contains(t, messages, "placement done")
	assert.Contains(t, messages, "placement failed")
}

func TestWorkerBuildFailure(t *testing.T) {
	bad := halfedge.Soup{Positions: make([]r3.Vec, 3), Faces: [][]int{{0, 1, 2}}}
	w, _, errc := startWorker(t, bad)
	assert.ErrorIs(t, <-errc, halfedge.ErrIsolatedFace)

	_, err := w.Submit(context.Background(), Request{Scale: 1, StopDist: 1})
	assert.ErrorIs(t, err, ErrStopped)
	assert.ErrorIs(t, err, halfedge.ErrIsolatedFace)
}

func TestWorkerConcurrentSubmit(t *testing.T) {
	soup := shapes.Icosphere(1)
	w, _, _ := startWorker(t, soup)

	var wg sync.WaitGroup
	results := make([]Result, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = w.Submit(context.Background(), Request{Vertex: i, Scale: 1, StopDist: 0.8})
		}()
	}
	wg.Wait()
	for i, r := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, i, r.Vertex)
	}
}

func TestSubmitContext(t *testing.T) {
	w := NewWorker(shapes.Tetrahedron(), true) // never run
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Submit(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaceAll(t *testing.T) {
	soup := shapes.Icosphere(1)
	reqs := []Request{
		{Vertex: 0, Scale: 1, StopDist: 1},
		{Vertex: 7, Scale: 0.5, StopDist: 0.6, Rotation: 1},
		{Vertex: 20, Translate: mgl64.Vec2{-0.1, 0.3}, Scale: 2, StopDist: 2},
	}
	results, err := PlaceAll(context.Background(), soup, true, reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))
	for i, r := range results {
		assert.Equal(t, reqs[i].Vertex, r.Vertex)
		assert.NotEqual(t, uuid.Nil, r.ID)
		assert.Equal(t, direct(t, soup, reqs[i]), r.UVs)
	}

	reqs = append(reqs, Request{Vertex: 0, Scale: 1, StopDist: -1})
	_, err = PlaceAll(context.Background(), soup, true, reqs)
	assert.ErrorIs(t, err, expmap.ErrBadStopDist)
}

func TestPlaceAllLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	reqs := []Request{{Vertex: 2, Scale: 1, StopDist: 1}, {Vertex: 5, Scale: 1, StopDist: 0.7}}
	_, err := PlaceAll(context.Background(), shapes.Icosphere(1), true, reqs, WithLogger(logger))
	require.NoError(t, err)

	done := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "placement done" {
			done++
		}
	}
	assert.Equal(t, len(reqs), done)
}
