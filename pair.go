package sparkling

import "fmt"

// A Pair is the element shape of key-value Datasets
type Pair struct {
	Key   interface{}
	Value interface{}
}

// NewPair is a convenience constructor for Pairs
func NewPair(key interface{}, value interface{}) Pair {
	return Pair{Key: key, Value: value}
}

// String returns a textual representation of this Pair, as written by SaveAsTextFile
func (p Pair) String() string {
	return fmt.Sprintf("(%v, %v)", p.Key, p.Value)
}

// Joined is the value of an element produced by a join. For outer joins, a side
// which has no value for the key is nil.
type Joined struct {
	Left  interface{}
	Right interface{}
}

// String returns a textual representation of this Joined value
func (j Joined) String() string {
	return fmt.Sprintf("(%v, %v)", j.Left, j.Right)
}

// Cogrouped is the value of an element produced by Cogroup: all the values for a key
// on each side, in their original order. A side without the key has no values.
type Cogrouped struct {
	Left  []interface{}
	Right []interface{}
}
