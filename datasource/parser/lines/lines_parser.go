// Package lines parses text data into one string element per line
package lines

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
)

// ParserConf configures a lines Parser
type ParserConf struct {
	HeaderLines int    // The number of lines to ignore from the beginning of each file. Defaults to 0.
	Comment     string // Lines beginning with the comment prefix are ignored. Defaults to no comment prefix.
}

// Parser produces string elements from lines of text
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new lines Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf == nil {
		conf = &ParserConf{}
	}
	return &Parser{conf: conf}
}

// Parse produces an Iterator over the lines of r, without their line terminators
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (sparkling.Iterator, error) {
	reader := bufio.NewReader(r)
	skipped := 0
	return iterator.NewWithOnEnd(func() (interface{}, bool, error) {
		for {
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return nil, false, err
			}
			if err == io.EOF && line == "" {
				return nil, false, nil
			}
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if skipped < p.conf.HeaderLines {
				skipped++
				continue
			}
			if p.conf.Comment != "" && strings.HasPrefix(line, p.conf.Comment) {
				continue
			}
			return line, true, nil
		}
	}, onIteratorEnd), nil
}
