package utils

import (
	"runtime"
	"sync"
)

type ParallelOptions struct {
	Routines     int
	InputFactor  int
	OutputFactor int
}

// ParallelFor feeds col to a new ProcessGroup. Outputs arrive in completion
// order, not in the order of col.
func ParallelFor[T, O any](col []T, proc func(T) (O, error), opts ...ParallelOptions) *ProcessGroup[T, O] {
	group := NewProcessGroup(proc, opts...)

	go func() {
		defer group.FinishedInput()

		for _, w := range col {
			select {
			case group.Input <- w:
			case <-group.abort:
				return
			}
		}
	}()

	return group
}

type ProcessGroup[I, O any] struct {
	proc      func(I) (O, error)
	abort     chan struct{}
	abortOnce sync.Once
	wg        sync.WaitGroup

	mutex sync.Mutex
	err   error

	Input  chan I
	Output chan O
}

func NewProcessGroup[I, O any](proc func(I) (O, error), opts ...ParallelOptions) *ProcessGroup[I, O] {
	o := ParallelOptions{
		Routines:     Max(Min(runtime.GOMAXPROCS(-1), runtime.NumCPU()/2)-1, 1),
		InputFactor:  2,
		OutputFactor: 2,
	}
	for _, oi := range opts {
		if oi.Routines > 0 {
			o.Routines = oi.Routines
		}
		if oi.InputFactor > 0 {
			o.InputFactor = oi.InputFactor
		}
		if oi.OutputFactor > 0 {
			o.OutputFactor = oi.OutputFactor
		}
	}

	group := &ProcessGroup[I, O]{
		proc:  proc,
		abort: make(chan struct{}),

		Input:  make(chan I, o.InputFactor*o.Routines),
		Output: make(chan O, o.OutputFactor*o.Routines),
	}

	for i := 0; i < o.Routines; i++ {
		group.wg.Add(1)
		go group.runProcessor()
	}

	go func() {
		group.wg.Wait()
		close(group.Output)
	}()

	return group
}

func (g *ProcessGroup[I, O]) runProcessor() {
	defer g.wg.Done()

	for {
		select {
		case <-g.abort:
			return

		case input, ok := <-g.Input:
			if !ok {
				return
			}

			output, err := g.proc(input)
			if err != nil {
				g.Abort(err)
				return
			}

			select {
			case g.Output <- output:
			case <-g.abort:
				return
			}
		}
	}
}

func (g *ProcessGroup[I, O]) FinishedInput() {
	close(g.Input)
}

// Abort stops all processors. Only the first error is kept.
func (g *ProcessGroup[I, O]) Abort(err error) {
	g.abortOnce.Do(func() {
		g.mutex.Lock()
		g.err = err
		g.mutex.Unlock()

		close(g.abort)
	})
}

// Error waits for all processors to stop and returns the error that aborted
// the group, if any.
func (g *ProcessGroup[I, O]) Error() error {
	g.wg.Wait()

	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.err
}
