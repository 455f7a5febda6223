package fileio

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "fileio")
	require.Nil(t, err)
	defer os.RemoveAll(dir)
	client := NewLocalFSClient()

	for _, name := range []string{"plain.txt", "data.gz", "data.zst", "data.lz4"} {
		p := filepath.Join(dir, "nested", name)
		w, err := Create(client, p)
		require.Nil(t, err)
		_, err = io.WriteString(w, "hello\nworld\n")
		require.Nil(t, err)
		require.Nil(t, w.Close())

		exists, err := client.Exists(p)
		require.Nil(t, err)
		require.True(t, exists)

		r, err := Open(client, p)
		require.Nil(t, err)
		content, err := ioutil.ReadAll(r)
		require.Nil(t, err)
		require.Nil(t, r.Close())
		require.Equal(t, "hello\nworld\n", string(content), name)
	}
}

func TestCodecSuffix(t *testing.T) {
	require.Equal(t, ".gz", CodecSuffix("/tmp/out.gz"))
	require.Equal(t, ".zst", CodecSuffix("out.zst"))
	require.Equal(t, "", CodecSuffix("/tmp/out"))
	require.Nil(t, CodecFor("notes.txt"))
}

func TestList(t *testing.T) {
	dir, err := ioutil.TempDir("", "fileio")
	require.Nil(t, err)
	defer os.RemoveAll(dir)
	for _, name := range []string{"b.txt", "a.txt", "_SUCCESS", ".hidden"} {
		require.Nil(t, ioutil.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	client := NewLocalFSClient()

	files, err := client.List(dir)
	require.Nil(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, files)

	files, err = client.List(filepath.Join(dir, "b.txt") + "," + filepath.Join(dir, "*.txt"))
	require.Nil(t, err)
	require.Len(t, files, 3)

	exists, err := client.Exists(filepath.Join(dir, "missing"))
	require.Nil(t, err)
	require.False(t, exists)
}
