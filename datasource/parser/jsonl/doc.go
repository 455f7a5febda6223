// Package jsonl parses JSON Lines data. This parser uses https://github.com/tidwall/gjson to process data,
// and can extract a fixed set of gjson paths from each line.
package jsonl
