package main

import (
	"context"
	"testing"

	"github.com/go-sif/sparkling"
	sparklingtesting "github.com/go-sif/sparkling/testing"
	"github.com/stretchr/testify/require"
)

func TestCountWords(t *testing.T) {
	sc := sparklingtesting.NewTestContext(t, 2)
	text := sc.Parallelize([]interface{}{"It's the end.", "The END, of the line"}, 2)
	counts, err := countWords(context.Background(), text)
	require.Nil(t, err)
	m, err := counts.CollectAsMap(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]interface{}{"it's": 1, "the": 3, "end": 2, "of": 1, "line": 1}, m)

	frequent, err := counts.Top(context.Background(), 1, func(elem interface{}) (interface{}, error) {
		return elem.(sparkling.Pair).Value, nil
	})
	require.Nil(t, err)
	require.Equal(t, []interface{}{sparkling.NewPair("the", 3)}, frequent)
}
