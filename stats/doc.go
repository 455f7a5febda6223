// Package stats provides StatCounter, an online aggregator of numeric statistics
// which can be merged across independently accumulated partitions
package stats
