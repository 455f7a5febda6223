package sparkling

// Iterator is a lazy, pull-based sequence of elements produced by computing a Partition.
// Elements are only computed when requested. An Iterator is consumed once; re-obtaining
// elements requires computing the Partition again. Iterators are not safe for concurrent use.
type Iterator interface {
	// HasNext returns true iff a call to Next will produce an element or an error
	HasNext() bool
	// Next returns the next element, or errors.NoMoreElementsError once the sequence is exhausted
	Next() (interface{}, error)
}
