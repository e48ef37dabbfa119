package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/graph"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation exceeds its time limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to callers whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// outcome is one sandbox run as delivered to the waiting caller.
type outcome struct {
	graph *graph.SceneGraph
	errs  []EvalError
	err   error
}

// start evaluates source on its own goroutine. The channel is buffered so
// an abandoned run can always deliver and exit.
func (e *Engine) start(source string, gen uint64) <-chan outcome {
	run := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				run <- outcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		g, errs, err := e.evaluate(source)
		if g != nil {
			g.Version = gen
		}
		run <- outcome{graph: g, errs: errs, err: err}
	}()
	return run
}

// current reports whether gen is still the latest Evaluate call.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// await waits for run until limit passes. zygomys cannot be interrupted, so
// a run still going at the deadline is left to finish on its own.
func (e *Engine) await(run <-chan outcome, gen uint64, limit time.Duration) outcome {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case o := <-run:
		if !e.current(gen) {
			return outcome{err: ErrSuperseded}
		}
		return o
	case <-timer.C:
		e.log.WithFields(logrus.Fields{
			"generation": gen,
			"limit":      limit,
		}).Debug("evaluation abandoned")
		return outcome{err: fmt.Errorf("%w after %s", ErrTimeout, limit)}
	}
}
