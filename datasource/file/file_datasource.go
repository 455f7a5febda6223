package file

import (
	"fmt"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/fileio"
)

// DataSource is a set of files containing data which will be parsed into elements
type DataSource struct {
	client     fileio.Client
	path       string
	parser     sparkling.DataSourceParser
	wholeFiles bool
}

// NewDataSource is a factory for DataSources which parse each file with parser.
// path may name a file, a directory or a glob pattern, or be a comma-separated list of those.
func NewDataSource(client fileio.Client, path string, parser sparkling.DataSourceParser) *DataSource {
	return &DataSource{client: client, path: path, parser: parser}
}

// NewWholeFileDataSource is a factory for DataSources which produce one Pair{path, content} per file
func NewWholeFileDataSource(client fileio.Client, path string) *DataSource {
	return &DataSource{client: client, path: path, wholeFiles: true}
}

// Files lists the files this DataSource will read, in Partition order
func (ds *DataSource) Files() ([]string, error) {
	files, err := ds.client.List(ds.path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("path %s produced 0 files", ds.path)
	}
	return files, nil
}

// Analyze returns a PartitionMap, describing how the source files will be divided into Partitions
func (ds *DataSource) Analyze() (sparkling.PartitionMap, error) {
	files, err := ds.Files()
	if err != nil {
		return nil, err
	}
	return &PartitionMap{
		files:  files,
		source: ds,
	}, nil
}
