// Package iterator provides lazy, pull-based, single-consumer implementations of sparkling.Iterator
package iterator

import (
	"context"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/errors"
)

// NextFunc produces the next element of a sequence. ok is false once the sequence is exhausted.
type NextFunc func() (elem interface{}, ok bool, err error)

// generator adapts a NextFunc to the HasNext/Next protocol with one element of lookahead.
// An error produced by the NextFunc is reported by the following call to Next, after which
// the generator is exhausted.
type generator struct {
	next    NextFunc
	onEnd   func()
	fetched bool
	done    bool
	elem    interface{}
	err     error
}

// New produces an Iterator from a NextFunc
func New(next NextFunc) sparkling.Iterator {
	return &generator{next: next}
}

// NewWithOnEnd produces an Iterator from a NextFunc, calling onEnd exactly once when the sequence ends or fails
func NewWithOnEnd(next NextFunc, onEnd func()) sparkling.Iterator {
	return &generator{next: next, onEnd: onEnd}
}

func (g *generator) fetch() {
	if g.fetched || g.done {
		return
	}
	elem, ok, err := g.next()
	switch {
	case err != nil:
		g.err = err
		g.fetched = true
	case !ok:
		g.finish()
	default:
		g.elem = elem
		g.fetched = true
	}
}

func (g *generator) finish() {
	if g.done {
		return
	}
	g.done = true
	g.elem = nil
	if g.onEnd != nil {
		g.onEnd()
	}
}

// HasNext returns true iff a call to Next will produce an element or an error
func (g *generator) HasNext() bool {
	g.fetch()
	return g.fetched
}

// Next returns the next element, or NoMoreElementsError if the sequence is exhausted
func (g *generator) Next() (interface{}, error) {
	g.fetch()
	if !g.fetched {
		return nil, errors.NoMoreElementsError{}
	}
	g.fetched = false
	if g.err != nil {
		err := g.err
		g.err = nil
		g.finish()
		return nil, err
	}
	elem := g.elem
	g.elem = nil
	return elem, nil
}

// pull is the NextFunc of an existing Iterator
func pull(it sparkling.Iterator) NextFunc {
	return func() (interface{}, bool, error) {
		if !it.HasNext() {
			return nil, false, nil
		}
		elem, err := it.Next()
		if err != nil {
			return nil, false, err
		}
		return elem, true, nil
	}
}

// FromSlice produces an Iterator over a slice of elements
func FromSlice(elems []interface{}) sparkling.Iterator {
	i := 0
	return New(func() (interface{}, bool, error) {
		if i >= len(elems) {
			return nil, false, nil
		}
		elem := elems[i]
		i++
		return elem, true, nil
	})
}

// Empty produces an Iterator with no elements
func Empty() sparkling.Iterator {
	return FromSlice(nil)
}

// Map produces an Iterator which lazily applies fn to each element of src
func Map(src sparkling.Iterator, fn sparkling.MapOperation) sparkling.Iterator {
	next := pull(src)
	return New(func() (interface{}, bool, error) {
		elem, ok, err := next()
		if err != nil || !ok {
			return nil, ok, err
		}
		result, err := fn(elem)
		if err != nil {
			return nil, false, err
		}
		return result, true, nil
	})
}

// Filter produces an Iterator which lazily retains the elements of src for which fn returns true
func Filter(src sparkling.Iterator, fn sparkling.FilterOperation) sparkling.Iterator {
	next := pull(src)
	return New(func() (interface{}, bool, error) {
		for {
			elem, ok, err := next()
			if err != nil || !ok {
				return nil, ok, err
			}
			keep, err := fn(elem)
			if err != nil {
				return nil, false, err
			}
			if keep {
				return elem, true, nil
			}
		}
	})
}

// FlatMap produces an Iterator which lazily expands each element of src into zero or more elements
func FlatMap(src sparkling.Iterator, fn sparkling.FlatMapOperation) sparkling.Iterator {
	next := pull(src)
	var buffer []interface{}
	return New(func() (interface{}, bool, error) {
		for len(buffer) == 0 {
			elem, ok, err := next()
			if err != nil || !ok {
				return nil, ok, err
			}
			buffer, err = fn(elem)
			if err != nil {
				return nil, false, err
			}
		}
		elem := buffer[0]
		buffer = buffer[1:]
		return elem, true, nil
	})
}

// Concat produces an Iterator over the elements of several Iterators in order. Each source
// Iterator is only opened once the previous one is exhausted.
func Concat(sources ...func() (sparkling.Iterator, error)) sparkling.Iterator {
	var current NextFunc
	return New(func() (interface{}, bool, error) {
		for {
			if current == nil {
				if len(sources) == 0 {
					return nil, false, nil
				}
				it, err := sources[0]()
				sources = sources[1:]
				if err != nil {
					return nil, false, err
				}
				current = pull(it)
			}
			elem, ok, err := current()
			if err != nil {
				return nil, false, err
			}
			if ok {
				return elem, true, nil
			}
			current = nil
		}
	})
}

// WithIndex produces an Iterator which passes each element of src to fn along with its position
func WithIndex(src sparkling.Iterator, fn func(i int, elem interface{}) (interface{}, error)) sparkling.Iterator {
	next := pull(src)
	i := 0
	return New(func() (interface{}, bool, error) {
		elem, ok, err := next()
		if err != nil || !ok {
			return nil, ok, err
		}
		result, err := fn(i, elem)
		i++
		if err != nil {
			return nil, false, err
		}
		return result, true, nil
	})
}

// Cancellable produces an Iterator which stops with the context's error once ctx is done
func Cancellable(ctx context.Context, src sparkling.Iterator) sparkling.Iterator {
	next := pull(src)
	return New(func() (interface{}, bool, error) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		return next()
	})
}

// Collect drains an Iterator into a slice
func Collect(it sparkling.Iterator) ([]interface{}, error) {
	result := make([]interface{}, 0)
	for it.HasNext() {
		elem, err := it.Next()
		if err != nil {
			return nil, err
		}
		result = append(result, elem)
	}
	return result, nil
}

// CollectN pulls at most n elements from an Iterator, leaving the rest untouched
func CollectN(it sparkling.Iterator, n int) ([]interface{}, error) {
	result := make([]interface{}, 0)
	for len(result) < n && it.HasNext() {
		elem, err := it.Next()
		if err != nil {
			return nil, err
		}
		result = append(result, elem)
	}
	return result, nil
}

// Count drains an Iterator, counting its elements
func Count(it sparkling.Iterator) (int64, error) {
	var n int64
	for it.HasNext() {
		if _, err := it.Next(); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// ForEach drains an Iterator, calling fn on each element
func ForEach(it sparkling.Iterator, fn func(elem interface{}) error) error {
	for it.HasNext() {
		elem, err := it.Next()
		if err != nil {
			return err
		}
		if err = fn(elem); err != nil {
			return err
		}
	}
	return nil
}
