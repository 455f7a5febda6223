package jsonl

import (
	"strings"
	"testing"

	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/stretchr/testify/require"
)

const people = "{\"name\": \"Sean\", \"meta\": { \"index\": 1, \"first\": \"Sean\", \"last\": \"McIntyre\"}}\n" +
	"\n" +
	"{\"name\": \"Chris\", \"meta\": { \"index\": 3, \"first\": \"Chris\"}}\n"

func TestJSONLPaths(t *testing.T) {
	parser := CreateParser(&ParserConf{Paths: []string{"name", "meta.index", "meta.last"}})
	it, err := parser.Parse(strings.NewReader(people), nil)
	require.Nil(t, err)
	rows, err := iterator.Collect(it)
	require.Nil(t, err)
	require.Equal(t, []interface{}{
		[]interface{}{"Sean", 1.0, "McIntyre"},
		[]interface{}{"Chris", 3.0, nil},
	}, rows)
}

func TestJSONLWholeLines(t *testing.T) {
	parser := CreateParser(nil)
	it, err := parser.Parse(strings.NewReader(people), nil)
	require.Nil(t, err)
	rows, err := iterator.Collect(it)
	require.Nil(t, err)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	require.Equal(t, "Sean", first["name"])
}

func TestJSONLInvalid(t *testing.T) {
	parser := CreateParser(nil)
	it, err := parser.Parse(strings.NewReader("{\"a\": 1}\n{nope\n"), nil)
	require.Nil(t, err)
	_, err = iterator.Collect(it)
	require.NotNil(t, err)
}
