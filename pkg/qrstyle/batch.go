package qrstyle

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/user/qrstyle/pkg/orchestrator"
)

// Job is one text to render in a batch.
type Job struct {
	Text    string
	Options Options
}

// BatchResult is the outcome of one Job. Err is set when that job failed;
// other jobs are unaffected.
type BatchResult struct {
	Index  int
	Text   string
	Result orchestrator.Result
	Err    error
}

// Batch renders jobs with a pool of workers. Each worker owns its own
// Generator created by newGenerator (nil uses the default adapters).
// workers <= 0 uses one worker per CPU. Results come back in job order.
// If ctx is cancelled, Batch returns the results finished so far along
// with the context error. Output sinks shared between jobs must be safe
// for concurrent use.
func Batch(ctx context.Context, jobs []Job, workers int, newGenerator func() *Generator) ([]BatchResult, error) {
	if len(jobs) == 0 {
		return []BatchResult{}, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if newGenerator == nil {
		newGenerator = defaultGenerator
	}

	queue := make(chan int, len(jobs))
	results := make(chan BatchResult, len(jobs))

	// Start workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go batchWorker(ctx, &wg, newGenerator(), jobs, queue, results)
	}

	// Send jobs
	for i := range jobs {
		queue <- i
	}
	close(queue)

	// Wait for workers to finish
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	out := make([]BatchResult, 0, len(jobs))
	for r := range results {
		out = append(out, r)
	}

	// Sort by index to maintain order
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// batchWorker renders jobs from queue until it is drained or ctx ends.
func batchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	gen *Generator,
	jobs []Job,
	queue <-chan int,
	results chan<- BatchResult,
) {
	defer wg.Done()

	for idx := range queue {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job := jobs[idx]
		res, err := gen.Render(ctx, job.Text, job.Options)
		results <- BatchResult{Index: idx, Text: job.Text, Result: res, Err: err}
	}
}
