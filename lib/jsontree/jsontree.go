// Package jsontree is a tolerant representation of untyped JSON
// payloads found in page scripts. Storefront frontends embed state
// blobs whose shape is unknown in advance and changes between site
// revisions, so instead of decoding into fixed structs, scripts are
// parsed into a tagged value tree that search predicates walk.
//
// Unlike a plain map[string]any decode, object member order is
// preserved, which keeps "first match" semantics deterministic across
// runs on the same document.
package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxDepth bounds nesting at parse time so that adversarially deep
// documents cannot exhaust the stack further down in the matchers.
const MaxDepth = 128

var errTooDeep = errors.New("json value exceeds maximum nesting depth")

type Kind uint8

const (
	Null Kind = iota
	Object
	Array
	String
	Number
	Bool
)

// Member is one key/value pair of an Object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is one node of a parsed JSON document.
type Value struct {
	kind    Kind
	members []Member
	items   []Value
	str     string
	num     json.Number
	boolean bool
}

func (v Value) Kind() Kind { return v.kind }

// Get returns the value of the named object member. The second return
// is false when v is not an object or has no such member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

func (v Value) Members() []Member {
	return v.members
}

func (v Value) Items() []Value {
	return v.items
}

// Str returns the string content, or "" for non-string values.
func (v Value) Str() string {
	if v.kind != String {
		return ""
	}
	return v.str
}

// Number returns the numeric literal exactly as it appeared in the
// source document.
func (v Value) Number() (json.Number, bool) {
	if v.kind != Number {
		return "", false
	}
	return v.num, true
}

func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.boolean, true
}

// Scalar renders strings, numbers and booleans to their text form.
// Objects, arrays and null render to "".
func (v Value) Scalar() string {
	switch v.kind {
	case String:
		return v.str
	case Number:
		return v.num.String()
	case Bool:
		if v.boolean {
			return "true"
		}
		return "false"
	}
	return ""
}

// Parse decodes data into a Value tree. The whole input must be a
// single JSON value; trailing garbage is an error so that script
// bodies which merely start with "{" but are actually javascript do
// not slip through.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	v, err := parseValue(dec, tok, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("trailing data after json value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder, tok json.Token, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, errTooDeep
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec, depth)
		case '[':
			return parseArray(dec, depth)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return Value{kind: String, str: t}, nil
	case json.Number:
		return Value{kind: Number, num: t}, nil
	case bool:
		return Value{kind: Bool, boolean: t}, nil
	case nil:
		return Value{kind: Null}, nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder, depth int) (Value, error) {
	obj := Value{kind: Object}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return Value{}, err
		}
		value, err := parseValue(dec, tok, depth+1)
		if err != nil {
			return Value{}, err
		}
		obj.members = append(obj.members, Member{Key: key, Value: value})
	}
}

func parseArray(dec *json.Decoder, depth int) (Value, error) {
	arr := Value{kind: Array}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}
		item, err := parseValue(dec, tok, depth+1)
		if err != nil {
			return Value{}, err
		}
		arr.items = append(arr.items, item)
	}
}
