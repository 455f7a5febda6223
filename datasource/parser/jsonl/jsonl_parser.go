package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/tidwall/gjson"
)

// ParserConf configures a JSONL Parser, suitable for JSON lines data
type ParserConf struct {
	HeaderLines   int      // The number of lines to ignore from the beginning of each file. Defaults to 0.
	MaxBufferSize int      // Maximum size in bytes of the buffer used to read lines from the file
	Paths         []string // gjson paths to extract from each line. If empty, each line is decoded in its entirety.
}

// Parser produces elements from JSONL data
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new JSONL Parser. With no Paths configured, each line becomes the decoded
// JSON value (map[string]interface{}, []interface{}, float64, string, bool or nil). With Paths
// configured, each line becomes a []interface{} holding the value found at each path, or nil.
func CreateParser(conf *ParserConf) *Parser {
	if conf == nil {
		conf = &ParserConf{}
	}
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	return &Parser{conf: conf}
}

// Parse parses JSONL data to produce elements
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (sparkling.Iterator, error) {
	// start parsing by creating a scanner
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), p.conf.MaxBufferSize)
	// ignore header lines, if configured to do so
	for i := 0; i < p.conf.HeaderLines; i++ {
		scanner.Scan()
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return iterator.NewWithOnEnd(func() (interface{}, bool, error) {
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			elem, err := p.ParseLine(line)
			if err != nil {
				log.Printf("Unable to parse line:\n\t%s", line)
				return nil, false, err
			}
			return elem, true, nil
		}
		if err := scanner.Err(); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}, onIteratorEnd), nil
}

// ParseLine parses a single line of JSON
func (p *Parser) ParseLine(line string) (interface{}, error) {
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("Invalid JSON: %s", line)
	}
	if len(p.conf.Paths) == 0 {
		return gjson.Parse(line).Value(), nil
	}
	results := gjson.GetMany(line, p.conf.Paths...)
	values := make([]interface{}, len(results))
	for i, res := range results {
		if res.Exists() {
			values[i] = res.Value()
		}
	}
	return values, nil
}
