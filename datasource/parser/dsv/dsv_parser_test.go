package dsv

import (
	"strings"
	"testing"

	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/stretchr/testify/require"
)

func TestDSVParser(t *testing.T) {
	parser := CreateParser(&ParserConf{
		HeaderLines: 1,
		Delimiter:   '|',
		Comment:     '#',
		NilValue:    "null",
	})
	data := "hack|passengers|distance\n" +
		"# comment\n" +
		"a1|2|3.5\n" +
		"b2|null|\"1|2\"\n"
	it, err := parser.Parse(strings.NewReader(data), nil)
	require.Nil(t, err)
	rows, err := iterator.Collect(it)
	require.Nil(t, err)
	require.Equal(t, []interface{}{
		[]interface{}{"a1", "2", "3.5"},
		[]interface{}{"b2", nil, "1|2"},
	}, rows)
}

func TestDSVParserRaggedRecords(t *testing.T) {
	parser := CreateParser(nil)
	it, err := parser.Parse(strings.NewReader("a,b\nc\n"), nil)
	require.Nil(t, err)
	_, err = iterator.Collect(it)
	require.NotNil(t, err)
}
