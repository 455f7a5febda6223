package file

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/datasource/parser/lines"
	"github.com/go-sif/sparkling/fileio"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, client fileio.Client, name string, content string) {
	w, err := fileio.Create(client, name)
	require.Nil(t, err)
	_, err = io.WriteString(w, content)
	require.Nil(t, err)
	require.Nil(t, w.Close())
}

func TestFileDataSource(t *testing.T) {
	dir, err := ioutil.TempDir("", "filesource")
	require.Nil(t, err)
	defer os.RemoveAll(dir)
	client := fileio.NewLocalFSClient()
	writeFile(t, client, filepath.Join(dir, "part-00000"), "a\nb\n")
	writeFile(t, client, filepath.Join(dir, "part-00001.gz"), "c\n")
	writeFile(t, client, filepath.Join(dir, "_SUCCESS"), "")

	ds := NewDataSource(client, dir, lines.CreateParser(nil))
	pm, err := ds.Analyze()
	require.Nil(t, err)
	parts := make([][]interface{}, 0)
	for pm.HasNext() {
		it, err := pm.Next().Load(sparkling.NewTaskContext(context.Background(), "test", len(parts)))
		require.Nil(t, err)
		elems, err := iterator.Collect(it)
		require.Nil(t, err)
		parts = append(parts, elems)
	}
	require.Equal(t, [][]interface{}{{"a", "b"}, {"c"}}, parts)
}

func TestWholeFileDataSource(t *testing.T) {
	dir, err := ioutil.TempDir("", "filesource")
	require.Nil(t, err)
	defer os.RemoveAll(dir)
	client := fileio.NewLocalFSClient()
	name := filepath.Join(dir, "doc.txt")
	writeFile(t, client, name, "line one\nline two\n")

	pm, err := NewWholeFileDataSource(client, name).Analyze()
	require.Nil(t, err)
	it, err := pm.Next().Load(sparkling.NewTaskContext(context.Background(), "test", 0))
	require.Nil(t, err)
	elems, err := iterator.Collect(it)
	require.Nil(t, err)
	require.Equal(t, []interface{}{sparkling.NewPair(name, "line one\nline two\n")}, elems)
	require.False(t, pm.HasNext())
}

func TestMissingFiles(t *testing.T) {
	_, err := NewDataSource(fileio.NewLocalFSClient(), "/definitely/not/here/*.txt", lines.CreateParser(nil)).Analyze()
	require.NotNil(t, err)
}
