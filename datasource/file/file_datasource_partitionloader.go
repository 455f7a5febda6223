package file

import (
	"fmt"
	"io/ioutil"
	"log"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/fileio"
	"github.com/go-sif/sparkling/internal/iterator"
)

// PartitionLoader is capable of loading partitions of data from a file
type PartitionLoader struct {
	path   string
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("File loader filename: %s", pl.path)
}

// Load opens and parses the file. The file is closed once the returned Iterator is exhausted.
func (pl *PartitionLoader) Load(tc sparkling.TaskContext) (sparkling.Iterator, error) {
	r, err := fileio.Open(pl.source.client, pl.path)
	if err != nil {
		return nil, err
	}
	if pl.source.wholeFiles {
		defer r.Close()
		content, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return iterator.FromSlice([]interface{}{sparkling.NewPair(pl.path, string(content))}), nil
	}
	it, err := pl.source.parser.Parse(r, func() {
		err := r.Close()
		if err != nil {
			log.Printf("WARNING: couldn't close file %s: %v", pl.path, err)
		}
	})
	if err != nil {
		r.Close()
		return nil, err
	}
	return it, nil
}
