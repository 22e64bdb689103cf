package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ValueKind is the closed set of shapes a dynamic trace payload can take.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
	KindBool
	KindList
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a decoded dynamic payload. Map fields keep their wire order.
type Value struct {
	Kind   ValueKind `msgpack:"k"`
	Num    float64   `msgpack:"n,omitempty"`
	Text   string    `msgpack:"s,omitempty"`
	Bool   bool      `msgpack:"b,omitempty"`
	Items  []Value   `msgpack:"l,omitempty"`
	Fields []Field   `msgpack:"m,omitempty"`
}

// Field is one named entry of a map value.
type Field struct {
	Name  string `msgpack:"k"`
	Value Value  `msgpack:"v"`
}

// Bindings is an ordered name to value mapping (variables, parameters, locals).
type Bindings []Field

func Null() Value { return Value{Kind: KindNull} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Text(s string) Value { return Value{Kind: KindText, Text: s} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func List(items ...Value) Value { return Value{Kind: KindList, Items: items} }
func Map(fields ...Field) Value { return Value{Kind: KindMap, Fields: fields} }
func F(name string, v Value) Field { return Field{Name: name, Value: v} }

// ParseValue decodes any JSON document into a Value.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("bad number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items...), nil
		case '{':
			fields := []Field{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				fields = append(fields, F(key, item))
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Map(fields...), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(formatNumber(v.Num))
	case KindText:
		b, err := json.Marshal(v.Text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Name)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
	return nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// IsStructured reports whether the value is a list or a map.
func (v Value) IsStructured() bool {
	return v.Kind == KindList || v.Kind == KindMap
}

// String returns the display form: scalars bare, structures as compact JSON.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return formatNumber(v.Num)
	case KindText:
		return v.Text
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return "?"
	}
	return string(b)
}

// Pretty returns structures as indented JSON and scalars as String does.
func (v Value) Pretty() string {
	if !v.IsStructured() {
		return v.String()
	}
	raw, err := v.MarshalJSON()
	if err != nil {
		return v.String()
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}

// Category names the runtime category of the value the way the traced
// program's host would report it.
func (v Value) Category() string {
	switch v.Kind {
	case KindNumber:
		return "number"
	case KindText:
		return "string"
	case KindBool:
		return "boolean"
	default:
		return "object"
	}
}

// Number returns the numeric view of the value.
func (v Value) Number() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Int returns the value as an int when it is an integral number in range.
func (v Value) Int() (int, bool) {
	if v.Kind != KindNumber || v.Num != math.Trunc(v.Num) {
		return 0, false
	}
	if v.Num >= math.MaxInt64 || v.Num < math.MinInt64 {
		return 0, false
	}
	n, err := safecast.Conv[int](int64(v.Num))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Get looks up a map field by name.
func (v Value) Get(name string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Lookup returns the first field present among names.
func (v Value) Lookup(names ...string) (Value, bool) {
	for _, name := range names {
		if got, ok := v.Get(name); ok {
			return got, true
		}
	}
	return Value{}, false
}

func (v Value) textOr(def string) string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNull:
		return def
	}
	return v.String()
}

// Get looks up a binding by name.
func (b Bindings) Get(name string) (Value, bool) {
	for _, f := range b {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

func (b Bindings) String() string {
	parts := make([]string, 0, len(b))
	for _, f := range b {
		parts = append(parts, f.Name+"="+f.Value.String())
	}
	return strings.Join(parts, ", ")
}
