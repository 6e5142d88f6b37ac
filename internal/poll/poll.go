// Package poll runs named periodic refreshes that live as long as the view
// that started them.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
	"goldmart/internal/metric"
)

type Func func(ctx context.Context) (any, error)

type Result struct {
	Value any
	Err   error
	At    time.Time
}

type task struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// Group owns a set of named tasks. Starting a name that is already running
// replaces it. A run that finishes after its task was stopped or replaced is
// dropped, so Latest never reports a stale refresh.
type Group struct {
	mu      sync.Mutex
	gen     uint64
	tasks   map[string]*task
	results map[string]Result
	log     *slog.Logger
}

func NewGroup(log *slog.Logger) *Group {
	return &Group{
		tasks:   make(map[string]*task),
		results: make(map[string]Result),
		log:     logger.OrDefault(log),
	}
}

// Start runs fn now and then every interval until Stop, StopAll or ctx ends.
// A task already running under name is swapped out in the same critical
// section and waited for after the new one is installed.
func (g *Group) Start(ctx context.Context, name string, interval time.Duration, fn Func) {
	g.mu.Lock()
	old := g.tasks[name]
	delete(g.results, name)
	g.gen++
	tctx, cancel := context.WithCancel(ctx)
	t := &task{gen: g.gen, cancel: cancel, done: make(chan struct{})}
	g.tasks[name] = t
	g.mu.Unlock()

	go g.loop(tctx, name, interval, fn, t)
	if old != nil {
		old.halt()
	}
}

func (t *task) halt() {
	t.cancel()
	<-t.done
}

func (g *Group) loop(ctx context.Context, name string, interval time.Duration, fn Func, t *task) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.run(ctx, name, fn, t)
	for {
		select {
		case <-ticker.C:
			g.run(ctx, name, fn, t)
		case <-ctx.Done():
			return
		}
	}
}

func (g *Group) run(ctx context.Context, name string, fn Func, t *task) {
	v, err := fn(ctx)
	res := Result{Value: v, Err: err, At: time.Now()}

	g.mu.Lock()
	defer g.mu.Unlock()
	cur, ok := g.tasks[name]
	if !ok || cur.gen != t.gen || ctx.Err() != nil {
		metric.PollRunsTotal.WithLabelValues(name, "discarded").Inc()
		return
	}
	if err != nil {
		metric.PollRunsTotal.WithLabelValues(name, "error").Inc()
		g.log.Warn("poll run failed", slog.String("task", name), sl.Err(err))
	} else {
		metric.PollRunsTotal.WithLabelValues(name, "ok").Inc()
	}
	g.results[name] = res
}

// Stop cancels the named task and waits for its loop to exit. It reports
// whether a task was running.
func (g *Group) Stop(name string) bool {
	g.mu.Lock()
	t, ok := g.tasks[name]
	if ok {
		delete(g.tasks, name)
		delete(g.results, name)
	}
	g.mu.Unlock()
	if !ok {
		return false
	}
	t.halt()
	return true
}

// StopAll empties the group in one critical section, then waits for every
// loop it removed.
func (g *Group) StopAll() {
	g.mu.Lock()
	tasks := make([]*task, 0, len(g.tasks))
	for n, t := range g.tasks {
		tasks = append(tasks, t)
		delete(g.tasks, n)
		delete(g.results, n)
	}
	g.mu.Unlock()
	for _, t := range tasks {
		t.halt()
	}
}

func (g *Group) Running(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.tasks[name]
	return ok
}

// Latest is the most recent result of a running task.
func (g *Group) Latest(name string) (Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.results[name]
	return r, ok
}
