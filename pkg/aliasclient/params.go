package aliasclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// placeholder matches ":name" tokens in a path template.
var placeholder = regexp.MustCompile(`:(\w+)`)

// formGetter is the key accessor of form-like bags such as url.Values or http.Header.
type formGetter interface {
	Get(key string) string
}

// lookupFunc fetches a parameter by key; ok is false when the bag has no such key.
type lookupFunc func(key string) (value any, ok bool)

// Interpolate replaces every ":name" token in template with the matching value from
// params, using the falsy rule: missing keys, nil, false, zero numbers and empty strings
// all become the empty string. A nil params leaves template untouched.
func Interpolate(template string, params any) string {
	return interpolate(template, params, false)
}

func interpolate(template string, params any, strict bool) string {
	if isNil(params) {
		return template
	}

	lookup := paramLookup(params)
	return placeholder.ReplaceAllStringFunc(template, func(token string) string {
		value, ok := lookup(token[1:])
		if !ok {
			return ""
		}
		if strict {
			if isNil(value) {
				return ""
			}
		} else if !truthy(value) {
			return ""
		}
		return encodeURIComponent(stringify(value))
	})
}

// paramLookup picks the accessor for the bag's shape. Struct bags are flattened once
// so repeated tokens do not re-walk the struct.
func paramLookup(params any) lookupFunc {
	switch p := params.(type) {
	case *multipart.Form:
		return func(key string) (any, bool) {
			vals, ok := p.Value[key]
			if !ok || len(vals) == 0 {
				return nil, false
			}
			return vals[0], true
		}
	case formGetter:
		return func(key string) (any, bool) { return p.Get(key), true }
	case map[string]any:
		return func(key string) (any, bool) {
			v, ok := p[key]
			return v, ok
		}
	case map[string]string:
		return func(key string) (any, bool) {
			v, ok := p[key]
			return v, ok
		}
	}

	rv := reflect.Indirect(reflect.ValueOf(params))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return missingLookup
		}
		keyType := rv.Type().Key()
		return func(key string) (any, bool) {
			v := rv.MapIndex(reflect.ValueOf(key).Convert(keyType))
			if !v.IsValid() {
				return nil, false
			}
			return v.Interface(), true
		}
	case reflect.Struct:
		fields := structFields(params)
		return func(key string) (any, bool) {
			v, ok := fields[key]
			return v, ok
		}
	default:
		return missingLookup
	}
}

func missingLookup(string) (any, bool) { return nil, false }

// structFields flattens a struct into its JSON field names, the same names it has when
// sent as a request body. Embedded structs are squashed into the parent, as encoding/json
// promotes their fields.
func structFields(v any) map[string]any {
	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  &out,
	})
	if err == nil {
		if err := dec.Decode(v); err != nil {
			out = map[string]any{}
		}
	}

	// Fields promoted from unexported embedded structs are skipped by mapstructure but
	// still appear in the encoded body.
	for key, value := range bodyFields(v) {
		if _, ok := out[key]; !ok {
			out[key] = value
		}
	}
	return out
}

// bodyFields returns the top-level keys of v's JSON encoding. Integers stay int64 so
// large IDs are not rounded.
func bodyFields(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil
	}
	for key, value := range fields {
		n, ok := value.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			fields[key] = i
		} else if f, err := n.Float64(); err == nil {
			fields[key] = f
		}
	}
	return fields
}

// truthy reports whether v would pass a boolean test in a loosely typed language:
// nil, false, 0, NaN and "" are falsy, everything else is truthy.
func truthy(v any) bool {
	rv, ok := deref(v)
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() > 0
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

func stringify(v any) string {
	if rv, ok := deref(v); ok {
		v = rv.Interface()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// deref unwraps pointers and interfaces; ok is false when a nil is reached.
func deref(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent percent-encodes every byte except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
