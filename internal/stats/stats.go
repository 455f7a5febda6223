package stats

import (
	"sync"
	"time"
)

const statisticRollingWindows = 5

// RunStatistics contains statistics about the jobs run by a driver. It is safe for concurrent use.
type RunStatistics struct {
	lock                        sync.Mutex
	startTime                   time.Time
	numJobs                     int64
	partitionsProcessed         int64
	recentPartitionRuntimes     []int64 // for rolling average of recent partition processing times
	recentPartitionRuntimesHead int
	jobRuntimes                 []int64 // most recent job runtimes
	jobRuntimesHead             int
}

// NewRunStatistics begins statistics tracking
func NewRunStatistics() *RunStatistics {
	return &RunStatistics{
		startTime:               time.Now(),
		recentPartitionRuntimes: make([]int64, 0, statisticRollingWindows),
		jobRuntimes:             make([]int64, 0, statisticRollingWindows),
	}
}

func pushRolling(window []int64, head int, value int64) ([]int64, int) {
	if len(window) < statisticRollingWindows {
		return append(window, value), head
	}
	window[head] = value
	return window, (head + 1) % statisticRollingWindows
}

// StartJob tracks the beginning of a job, returning its start time
func (rs *RunStatistics) StartJob() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.numJobs++
	return time.Now()
}

// EndJob tracks the end of a job which began at start
func (rs *RunStatistics) EndJob(start time.Time) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.jobRuntimes, rs.jobRuntimesHead = pushRolling(rs.jobRuntimes, rs.jobRuntimesHead, time.Since(start).Nanoseconds())
}

// EndPartition tracks the end of the processing of a partition which began at start
func (rs *RunStatistics) EndPartition(start time.Time) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.partitionsProcessed++
	rs.recentPartitionRuntimes, rs.recentPartitionRuntimesHead = pushRolling(rs.recentPartitionRuntimes, rs.recentPartitionRuntimesHead, time.Since(start).Nanoseconds())
}

// GetStartTime returns the time at which the driver started
func (rs *RunStatistics) GetStartTime() time.Time {
	return rs.startTime
}

// GetRuntime returns the running time of the driver
func (rs *RunStatistics) GetRuntime() time.Duration {
	return time.Since(rs.startTime)
}

// GetNumJobs returns the number of jobs which have been started so far
func (rs *RunStatistics) GetNumJobs() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.numJobs
}

// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far
func (rs *RunStatistics) GetNumPartitionsProcessed() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.partitionsProcessed
}

// GetCurrentPartitionProcessingTime returns a rolling average of partition processing time
func (rs *RunStatistics) GetCurrentPartitionProcessingTime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if len(rs.recentPartitionRuntimes) == 0 {
		return 0
	}
	var total int64
	for _, v := range rs.recentPartitionRuntimes {
		total += v
	}
	return time.Duration(total / int64(len(rs.recentPartitionRuntimes)))
}

// GetJobRuntimes returns the runtimes of the most recent jobs, oldest first
func (rs *RunStatistics) GetJobRuntimes() []time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	result := make([]time.Duration, 0, len(rs.jobRuntimes))
	for i := 0; i < len(rs.jobRuntimes); i++ {
		result = append(result, time.Duration(rs.jobRuntimes[(rs.jobRuntimesHead+i)%len(rs.jobRuntimes)]))
	}
	return result
}
