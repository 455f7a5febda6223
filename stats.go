package sparkling

import "time"

// RuntimeStatistics facilitates the retrieval of statistics about the jobs run by a driver
type RuntimeStatistics interface {
	// GetStartTime returns the time at which the driver started
	GetStartTime() time.Time
	// GetRuntime returns the running time of the driver
	GetRuntime() time.Duration
	// GetNumJobs returns the number of jobs which have been run so far
	GetNumJobs() int64
	// GetNumPartitionsProcessed returns the number of Partitions which have been computed so far, across all jobs
	GetNumPartitionsProcessed() int64
	// GetCurrentPartitionProcessingTime returns a rolling average of partition processing time
	GetCurrentPartitionProcessingTime() time.Duration
	// GetJobRuntimes returns the runtimes of the most recent jobs
	GetJobRuntimes() []time.Duration
}
