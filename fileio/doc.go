// Package fileio is the storage layer used to load and save Datasets. A Client abstracts
// the file system, and Codecs, selected by file name suffix, compress and decompress streams.
package fileio
