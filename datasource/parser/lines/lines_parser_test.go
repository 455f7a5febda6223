package lines

import (
	"strings"
	"testing"

	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/stretchr/testify/require"
)

func TestLinesParser(t *testing.T) {
	parser := CreateParser(&ParserConf{HeaderLines: 1, Comment: "#"})
	ended := false
	it, err := parser.Parse(strings.NewReader("header\r\nfirst\n# note\n\nlast"), func() { ended = true })
	require.Nil(t, err)
	result, err := iterator.Collect(it)
	require.Nil(t, err)
	require.Equal(t, []interface{}{"first", "", "last"}, result)
	require.True(t, ended)
}
