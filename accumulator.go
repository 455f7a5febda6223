package sparkling

// An Accumulator is an alternative reduction technique, which siphons elements from
// Partitions into a custom data structure. Each Partition is accumulated into its own
// fresh Accumulator, and the per-Partition Accumulators are then merged on the driver,
// in Partition order. The result is itself an Accumulator, thus ending the job.
type Accumulator interface {
	Accumulate(elem interface{}) error // Accumulate adds an element to this Accumulator
	Merge(o Accumulator) error         // Merge merges another Accumulator into this one
}

// AccumulatorFactory is a function that produces a fresh Accumulator
type AccumulatorFactory func() Accumulator
