// Package object encodes and decodes the files written by SaveAsObjectFile. Each file holds one
// protobuf-encoded list of elements. Elements may be nil, bools, numbers, strings, Pairs, and
// slices or string-keyed maps of those. All numbers are decoded as float64.
package object

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// pairField marks a struct value which encodes a Pair
const pairField = "@pair"

// Parser produces elements from object files
type Parser struct{}

// CreateParser returns a new object file Parser
func CreateParser() *Parser {
	return &Parser{}
}

// Parse decodes an entire object file, producing its elements
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (sparkling.Iterator, error) {
	buff, err := ioutil.ReadAll(r)
	if onIteratorEnd != nil {
		defer onIteratorEnd()
	}
	if err != nil {
		return nil, err
	}
	elems, err := Decode(buff)
	if err != nil {
		return nil, err
	}
	return iterator.FromSlice(elems), nil
}

// Encode serializes a list of elements
func Encode(elems []interface{}) ([]byte, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, len(elems))}
	for i, e := range elems {
		v, err := toValue(e)
		if err != nil {
			return nil, err
		}
		list.Values[i] = v
	}
	return proto.Marshal(list)
}

// Decode deserializes a list of elements
func Decode(buff []byte) ([]interface{}, error) {
	list := &structpb.ListValue{}
	if err := proto.Unmarshal(buff, list); err != nil {
		return nil, err
	}
	elems := make([]interface{}, len(list.Values))
	for i, v := range list.Values {
		elems[i] = fromValue(v)
	}
	return elems, nil
}

func toValue(elem interface{}) (*structpb.Value, error) {
	switch e := elem.(type) {
	case sparkling.Pair:
		k, err := toValue(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := toValue(e.Value)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			pairField: structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{k, v}}),
		}}), nil
	case []interface{}:
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(e))}
		for i, x := range e {
			v, err := toValue(x)
			if err != nil {
				return nil, err
			}
			list.Values[i] = v
		}
		return structpb.NewListValue(list), nil
	case map[string]interface{}:
		s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(e))}
		for k, x := range e {
			v, err := toValue(x)
			if err != nil {
				return nil, err
			}
			s.Fields[k] = v
		}
		return structpb.NewStructValue(s), nil
	default:
		v, err := structpb.NewValue(elem)
		if err != nil {
			return nil, fmt.Errorf("Unable to encode element %v (%T): %w", elem, elem, err)
		}
		return v, nil
	}
}

func fromValue(v *structpb.Value) interface{} {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		if pv, ok := fields[pairField]; ok && len(fields) == 1 {
			if kv := pv.GetListValue().GetValues(); len(kv) == 2 {
				return sparkling.Pair{Key: fromValue(kv[0]), Value: fromValue(kv[1])}
			}
		}
		m := make(map[string]interface{}, len(fields))
		for name, x := range fields {
			m[name] = fromValue(x)
		}
		return m
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		result := make([]interface{}, len(values))
		for i, x := range values {
			result[i] = fromValue(x)
		}
		return result
	default:
		return v.AsInterface()
	}
}
