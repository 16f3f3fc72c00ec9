package pipeline

import (
	"context"
	"sync"
)

// Config controls the worker pool.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// ForEach runs work for every job on cfg.Threads workers and calls visit for
// each result from one goroutine, so visit needs no locking.
//
// The first error from work or visit cancels the remaining jobs and is
// returned. Cancellation of ctx is reported as ctx.Err().
func ForEach[J, R any](
	ctx context.Context,
	cfg Config,
	jobs []J,
	work func(context.Context, J) (R, error),
	visit func(R) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	in := make(chan J, cfg.Threads*2)
	results := make(chan R, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-runCtx.Done():
					return
				case j, ok := <-in:
					if !ok {
						return
					}
					r, err := work(runCtx, j)
					if err != nil {
						fail(err)
						return
					}
					select {
					case results <- r:
					case <-runCtx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var cwg sync.WaitGroup
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if runCtx.Err() != nil {
				continue
			}
			if err := visit(r); err != nil {
				fail(err)
			}
		}
	}()

	// Feed work
feed:
	for _, j := range jobs {
		select {
		case <-runCtx.Done():
			break feed
		case in <- j:
		}
	}

	close(in)
	wg.Wait()
	close(results)
	cwg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return firstErr
}
