package sparkling

import "context"

// A TaskContext is an ephemeral handle on the evaluation of a single Partition within a job.
// A fresh TaskContext is created per Partition per job, and it is passed by value down a
// Dataset's transformation chain, so nested computations cannot observe or corrupt the state
// of sibling tasks. The embedded context.Context acts as a cooperative cancellation token,
// checked between elements.
type TaskContext struct {
	ctx         context.Context
	jobID       string
	partitionID int
	depth       int
}

// NewTaskContext is a factory for TaskContexts, used by the job runner
func NewTaskContext(ctx context.Context, jobID string, partitionID int) TaskContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return TaskContext{ctx: ctx, jobID: jobID, partitionID: partitionID}
}

// PartitionID returns the index of the Partition being computed
func (tc TaskContext) PartitionID() int {
	return tc.partitionID
}

// JobID returns the ID of the job this task belongs to
func (tc TaskContext) JobID() string {
	return tc.jobID
}

// Depth returns the number of upstream hops between this TaskContext and the one created by the job runner
func (tc TaskContext) Depth() int {
	return tc.depth
}

// Context returns the cancellation context for this task
func (tc TaskContext) Context() context.Context {
	if tc.ctx == nil {
		return context.Background()
	}
	return tc.ctx
}

// Err returns a non-nil error iff this task has been cancelled
func (tc TaskContext) Err() error {
	return tc.Context().Err()
}

// Child produces a copy of this TaskContext for an upstream hop
func (tc TaskContext) Child() TaskContext {
	child := tc
	child.depth++
	return child
}
