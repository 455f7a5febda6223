package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/datasource/parser/object"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/fileio"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/go-sif/sparkling/internal/util"
	"github.com/go-sif/sparkling/logging"
	"github.com/hashicorp/go-multierror"
)

// successMarker is written beside the part files once every Partition has been saved
const successMarker = "_SUCCESS"

// partitionWriter writes the elements of one Partition to an open file
type partitionWriter func(w io.Writer, elems sparkling.Iterator) error

func writeText(w io.Writer, elems sparkling.Iterator) error {
	bw := bufio.NewWriter(w)
	err := iterator.ForEach(elems, func(elem interface{}) error {
		if _, err := bw.WriteString(util.ElementToString(elem)); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeObjects(w io.Writer, elems sparkling.Iterator) error {
	all, err := iterator.Collect(elems)
	if err != nil {
		return err
	}
	buff, err := object.Encode(all)
	if err != nil {
		return err
	}
	_, err = w.Write(buff)
	return err
}

// writeFile creates a file, compressed according to its name, and fills it
func writeFile(client fileio.Client, name string, fill func(w io.Writer) error) error {
	w, err := fileio.Create(client, name)
	if err != nil {
		return err
	}
	var merr *multierror.Error
	merr = multierror.Append(merr, fill(w), w.Close())
	return merr.ErrorOrNil()
}

// save writes this Dataset to path. A Dataset with a single Partition is written to path
// itself. Otherwise path becomes a directory holding one part file per Partition, carrying
// the compression suffix of path, and a success marker.
func (ds *datasetImpl) save(ctx context.Context, path string, write partitionWriter) error {
	client := ds.engine.conf.FileSystem
	exists, err := client.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return errors.FileAlreadyExistsError{Path: path}
	}
	numPartitions := ds.GetNumPartitions()
	if numPartitions == 1 {
		_, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
			return nil, writeFile(client, path, func(w io.Writer) error { return write(w, elems) })
		}, nil)
		return err
	}
	suffix := fileio.CodecSuffix(path)
	_, err = ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		name := filepath.Join(path, fmt.Sprintf("part-%05d%s", tc.PartitionID(), suffix))
		return nil, writeFile(client, name, func(w io.Writer) error { return write(w, elems) })
	}, nil)
	if err != nil {
		return err
	}
	logging.Debug(ds.engine.conf.Logger, "saved dataset", "dataset", ds.id, "path", path, "partitions", numPartitions)
	return writeFile(client, filepath.Join(path, successMarker), func(w io.Writer) error { return nil })
}

func (ds *datasetImpl) SaveAsTextFile(ctx context.Context, path string) error {
	return ds.save(ctx, path, writeText)
}

func (ds *datasetImpl) SaveAsObjectFile(ctx context.Context, path string) error {
	return ds.save(ctx, path, writeObjects)
}
