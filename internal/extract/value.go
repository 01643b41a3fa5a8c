package extract

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// Value is a parsed JSON value. Object members keep their document order,
// which the fallback search depends on; encoding/json maps would lose it.
type Value interface {
	isValue()
}

type Null struct{}

type Bool bool

type Number float64

type String string

type Array []Value

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered sequence of members.
type Object []Member

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Get returns the value for key. With duplicate keys the first member wins.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Parse decodes raw JSON into a Value, preserving object member order.
func Parse(data []byte) (Value, error) {
	raw, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return build(raw, dt)
}

func build(data []byte, dt jsonparser.ValueType) (Value, error) {
	switch dt {
	case jsonparser.Null:
		return Null{}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, err
		}
		return Bool(b), nil
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(data)
		if err != nil {
			return nil, err
		}
		return Number(f), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case jsonparser.Array:
		arr := Array{}
		var buildErr error
		_, err := jsonparser.ArrayEach(data, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			if buildErr != nil {
				return
			}
			elem, err := build(v, t)
			if err != nil {
				buildErr = err
				return
			}
			arr = append(arr, elem)
		})
		if err != nil {
			return nil, err
		}
		if buildErr != nil {
			return nil, buildErr
		}
		return arr, nil
	case jsonparser.Object:
		obj := Object{}
		err := jsonparser.ObjectEach(data, func(k, v []byte, t jsonparser.ValueType, _ int) error {
			key, err := jsonparser.ParseString(k)
			if err != nil {
				return err
			}
			elem, err := build(v, t)
			if err != nil {
				return err
			}
			obj = append(obj, Member{Key: key, Value: elem})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unexpected json value type %v", dt)
	}
}
