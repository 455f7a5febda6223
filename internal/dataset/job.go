package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/go-sif/sparkling/internal/util"
	"github.com/go-sif/sparkling/logging"
	uuid "github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"
)

// RunJob evaluates fn against each requested Partition of ds, returning the per-Partition
// results in request order. A nil partitions slice requests every Partition in ascending order.
// With more than one worker configured, Partitions are computed concurrently; the first
// failure cancels the remaining tasks and every task failure is reported.
func (e *Engine) RunJob(ctx context.Context, ds sparkling.Dataset, fn sparkling.JobOperation, partitions []int) ([]interface{}, error) {
	n, err := e.lookupDataset(ds)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	requested := n.partitions
	if partitions != nil {
		requested = make([]sparkling.Partition, len(partitions))
		for i, idx := range partitions {
			if idx < 0 || idx >= len(n.partitions) {
				return nil, errors.InvalidArgumentError{Name: "partitions", Reason: fmt.Sprintf("dataset %d has no partition %d", n.id, idx)}
			}
			requested[i] = n.partitions[idx]
		}
	}
	jobUUID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	jobID := jobUUID.String()
	safeFn := util.SafeJobOperation(fn)

	start := e.statsTracker.StartJob()
	defer e.statsTracker.EndJob(start)
	logging.Debug(e.conf.Logger, "starting job", "job", jobID, "dataset", n.id, "partitions", len(requested), "workers", e.conf.NumWorkers)

	var results []interface{}
	if e.conf.NumWorkers <= 1 || len(requested) <= 1 {
		results, err = e.runSequential(ctx, jobID, n, requested, safeFn)
	} else {
		results, err = e.runParallel(ctx, jobID, n, requested, safeFn)
	}
	if err != nil {
		logging.Debug(e.conf.Logger, "job failed", "job", jobID, "error", err.Error())
		return nil, err
	}
	logging.Debug(e.conf.Logger, "finished job", "job", jobID, "duration", time.Since(start).String())
	return results, nil
}

// RunJobWithHandler runs a job as RunJob does, passing the per-Partition results through handler
func (e *Engine) RunJobWithHandler(ctx context.Context, ds sparkling.Dataset, fn sparkling.JobOperation, partitions []int, handler sparkling.ResultHandler) (interface{}, error) {
	results, err := e.RunJob(ctx, ds, fn, partitions)
	if err != nil {
		return nil, err
	}
	if handler == nil {
		return results, nil
	}
	return handler(results)
}

// runTask computes one Partition and applies fn to its elements
func (e *Engine) runTask(ctx context.Context, jobID string, n *node, p sparkling.Partition, fn sparkling.JobOperation) (interface{}, error) {
	start := time.Now()
	tc := sparkling.NewTaskContext(ctx, jobID, p.Index())
	logging.Trace(e.conf.Logger, "starting task", "job", jobID, "partition", p.Index(), "loader", p.Loader().ToString())
	elems, err := e.compute(n, p, tc)
	if err != nil {
		return nil, err
	}
	result, err := fn(tc, iterator.Cancellable(ctx, elems))
	if err != nil {
		return nil, err
	}
	e.statsTracker.EndPartition(start)
	logging.Trace(e.conf.Logger, "finished task", "job", jobID, "partition", p.Index(), "duration", time.Since(start).String())
	return result, nil
}

func (e *Engine) runSequential(ctx context.Context, jobID string, n *node, requested []sparkling.Partition, fn sparkling.JobOperation) ([]interface{}, error) {
	results := make([]interface{}, len(requested))
	for i, p := range requested {
		result, err := e.runTask(ctx, jobID, n, p, fn)
		if err != nil {
			return nil, err
		}
		results[i] = result
	}
	return results, nil
}

func (e *Engine) runParallel(ctx context.Context, jobID string, n *node, requested []sparkling.Partition, fn sparkling.JobOperation) ([]interface{}, error) {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	results := make([]interface{}, len(requested))
	sem := semaphore.NewWeighted(int64(e.conf.NumWorkers))
	var wg sync.WaitGroup
	var errLock sync.Mutex
	var merr *multierror.Error
	for i, p := range requested {
		// fails once the job has been cancelled
		if err := sem.Acquire(jobCtx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, p sparkling.Partition) {
			defer wg.Done()
			defer sem.Release(1)
			result, err := e.runTask(jobCtx, jobID, n, p, fn)
			if err != nil {
				errLock.Lock()
				defer errLock.Unlock()
				// tasks interrupted by an earlier failure add nothing to the report
				if merr == nil || !stderrors.Is(err, context.Canceled) {
					merr = multierror.Append(merr, fmt.Errorf("partition %d: %w", p.Index(), err))
				}
				cancel()
				return
			}
			results[i] = result
		}(i, p)
	}
	wg.Wait()
	if merr != nil {
		merr.ErrorFormat = func(errs []error) string {
			return fmt.Sprintf("%d task(s) failed:\n%s", len(errs), util.FormatMultiError(errs))
		}
		return nil, merr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
