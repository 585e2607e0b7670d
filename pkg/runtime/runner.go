package runtime

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/aarre/jmh/pkg/descriptor"
)

// shutdownGrace is how long shutdown waits for worker goroutines to exit
// before logging a warning; it then keeps waiting until they have all
// exited, so shutdown never returns while a worker is still running.
const shutdownGrace = 10 * time.Second

type iterationState struct {
	control    *Control
	duration   time.Duration
	singleShot bool
}

// threadGroupRunner owns a fixed set of worker goroutines, one per
// configured thread, for the lifetime of one Trial. The same pair of
// N+1-way cyclic barriers is reused for every iteration: the coordinator
// is the "+1" participant, so by the time a barrier trips, the state it
// wrote before calling Wait is visible to every worker, and every result
// a worker wrote before calling Wait is visible to the coordinator.
type threadGroupRunner struct {
	engine *Engine

	startBarrier *barrier
	endBarrier   *barrier

	current atomic.Value // *iterationState

	resultsMu sync.Mutex
	results   []Result
	errs      []error

	stopCh       chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

func newThreadGroupRunner(e *Engine, threadIDs []int) (*threadGroupRunner, error) {
	n := len(threadIDs)
	r := &threadGroupRunner{
		engine:       e,
		startBarrier: newBarrier(n + 1),
		endBarrier:   newBarrier(n + 1),
		stopCh:       make(chan struct{}),
	}

	for _, t := range threadIDs {
		r.wg.Add(1)
		go r.worker(t)
	}

	return r, nil
}

func (r *threadGroupRunner) worker(threadID int) {
	defer r.wg.Done()

	for {
		r.startBarrier.Wait()

		select {
		case <-r.stopCh:
			return
		default:
		}

		st, _ := r.current.Load().(*iterationState)
		result, err := r.runThread(st, threadID)

		r.resultsMu.Lock()
		r.results = append(r.results, result)
		if err != nil {
			r.errs = append(r.errs, err)
		}
		r.resultsMu.Unlock()

		r.endBarrier.Wait()
	}
}

// runIteration runs one iteration across every worker thread and returns
// the per-thread Results. For a SingleShotTime benchmark each thread
// invokes the body exactly once and duration is ignored; otherwise a
// timer calls control.RequestStop after duration and each thread loops
// until it observes the stop.
func (r *threadGroupRunner) runIteration(control *Control, duration time.Duration, singleShot bool) ([]Result, error) {
	r.resultsMu.Lock()
	r.results = nil
	r.errs = nil
	r.resultsMu.Unlock()

	r.current.Store(&iterationState{control: control, duration: duration, singleShot: singleShot})

	var timer *time.Timer
	if !singleShot {
		timer = time.AfterFunc(duration, control.RequestStop)
	}

	r.startBarrier.Wait()
	r.endBarrier.Wait()

	if timer != nil {
		timer.Stop()
	}

	if len(r.errs) > 0 {
		return nil, r.errs[0]
	}
	return r.results, nil
}

func (r *threadGroupRunner) runThread(st *iterationState, threadID int) (Result, error) {
	e := r.engine
	loop := NewLoop(st.control)

	state, err := e.resolveAll(threadID)
	if err != nil {
		return Result{}, err
	}

	invoke := func() error {
		if err := e.runPeriod(e.Stub.Setup[descriptor.LevelInvocation], []int{threadID}); err != nil {
			return err
		}
		bodyErr := e.Body(loop, state)
		teardownErr := e.runPeriod(e.Stub.Teardown[descriptor.LevelInvocation], []int{threadID})
		if bodyErr != nil {
			return bodyErr
		}
		return teardownErr
	}

	start := time.Now()

	if st.singleShot {
		if err := invoke(); err != nil {
			return Result{}, err
		}
		return Result{Ops: 1, Time: time.Since(start).Seconds()}, nil
	}

	for !st.control.StopMeasurement() {
		if err := invoke(); err != nil {
			return Result{}, err
		}
		if !loop.Tick() {
			break
		}
	}

	return Result{Ops: loop.Ops(), Time: time.Since(start).Seconds()}, nil
}

// shutdown stops every worker goroutine. It is idempotent: if workers
// have not exited within shutdownGrace it logs a warning, then waits for
// them to exit before returning. The configured executor type is not
// consulted: every runner, including one configured with
// config.ExecutorSharedForkJoin, owns its goroutines and is shut down
// here by its IterationCoordinator.
func (r *threadGroupRunner) shutdown() {
	r.shutdownOnce.Do(func() {
		close(r.stopCh)
		r.startBarrier.Wait()

		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(shutdownGrace):
			r.engine.Logger.Printf("[runner] shutdown grace period elapsed waiting for worker threads to exit")
			<-done
		}
	})
}
