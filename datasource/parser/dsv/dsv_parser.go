// Package dsv parses delimiter-separated values, producing one []interface{} of fields per record
package dsv

import (
	"encoding/csv"
	"io"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
)

// ParserConf configures a DSV Parser
type ParserConf struct {
	HeaderLines     int    // The number of lines to ignore from the beginning of each file. Defaults to 0.
	Delimiter       rune   // The delimiter separating columns in the file. Defaults to ,
	Comment         rune   // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue        string // A special string which represents nil values in the dataset. Defaults to no special value.
	FieldsPerRecord int    // The required number of fields per record. Defaults to 0, which requires every record to match the first.
}

// Parser produces elements from DSV data
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new DSV Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf == nil {
		conf = &ParserConf{}
	}
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	return &Parser{conf: conf}
}

// Parse parses DSV data to produce elements
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (sparkling.Iterator, error) {
	// start parsing by creating a reader
	reader := csv.NewReader(r)
	reader.Comma = p.conf.Delimiter
	reader.Comment = p.conf.Comment
	reader.FieldsPerRecord = p.conf.FieldsPerRecord

	// ignore header lines, if configured to do so
	for i := 0; i < p.conf.HeaderLines; i++ {
		_, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
	}
	return iterator.NewWithOnEnd(func() (interface{}, bool, error) {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, false, nil
		} else if err != nil {
			return nil, false, err
		}
		return p.scanRecord(record), true, nil
	}, onIteratorEnd), nil
}

func (p *Parser) scanRecord(record []string) []interface{} {
	fields := make([]interface{}, len(record))
	for i, f := range record {
		if p.conf.NilValue != "" && f == p.conf.NilValue {
			continue
		}
		fields[i] = f
	}
	return fields
}
