// Package file provides a DataSource which reads data from files. Each file becomes one Partition,
// so it is favourable if individual files represent roughly equal-sized divisions of data.
// Compressed files are decompressed according to their suffix.
package file
