package models

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Flattened is the transport form of an entity: field name to scalar,
// nested mapping or sequence.
type Flattened = map[string]any

// TimeLayout is used for every timestamp and date in flattened form.
const TimeLayout = time.RFC3339Nano

// column describes one db-tagged struct field.
type column struct {
	index []int
	name  string // database column
	key   string // flattened key, empty when the field is not flattened
}

var (
	columnCache sync.Map // reflect.Type -> []column
	decimalType = reflect.TypeOf(Decimal{})
	timePtrType = reflect.TypeOf((*time.Time)(nil))
)

// columnsOf reads the `db` and `flat` tags of t. Fields tagged db:"-" are
// relations and never treated as columns.
func columnsOf(t reflect.Type) []column {
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}
		key := name
		switch flat := f.Tag.Get("flat"); flat {
		case "":
		case "-":
			key = ""
		default:
			key = flat
		}
		cols = append(cols, column{index: f.Index, name: name, key: key})
	}

	columnCache.Store(t, cols)
	return cols
}

// Columns lists the database columns of entity type T in declaration order.
func Columns[T any]() []string {
	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem())
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.name
	}
	return out
}

// QualifiedColumns prefixes every column of T with table.
func QualifiedColumns[T any](table string) []string {
	cols := Columns[T]()
	for i, c := range cols {
		cols[i] = table + "." + c
	}
	return cols
}

// flattenColumns writes every flattened column of the struct behind v into out.
func flattenColumns(v any, out Flattened) {
	rv := reflect.ValueOf(v).Elem()
	for _, c := range columnsOf(rv.Type()) {
		if c.key == "" {
			continue
		}
		out[c.key] = flattenValue(rv.FieldByIndex(c.index))
	}
}

func flattenValue(fv reflect.Value) any {
	switch fv.Type() {
	case decimalType:
		d := fv.Interface().(Decimal)
		if !d.Valid() {
			return nil
		}
		return d.String()
	case timePtrType:
		if fv.IsNil() {
			return nil
		}
		return fv.Interface().(*time.Time).Format(TimeLayout)
	}

	switch fv.Kind() {
	case reflect.Ptr:
		if fv.IsNil() {
			return nil
		}
		return flattenValue(fv.Elem())
	case reflect.Slice:
		out := make([]string, fv.Len())
		for i := range out {
			out[i] = fv.Index(i).String()
		}
		return out
	case reflect.String:
		return fv.String()
	case reflect.Bool:
		return fv.Bool()
	case reflect.Int, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(fv.Int())
	default:
		return fv.Interface()
	}
}

// reconstructColumns is the inverse of flattenColumns. Missing and nil keys
// leave the field at its zero value.
func reconstructColumns(m Flattened, v any) error {
	input := make(map[string]any, len(m))
	for _, c := range columnsOf(reflect.TypeOf(v).Elem()) {
		if c.key == "" {
			continue
		}
		if raw, ok := m[c.key]; ok && raw != nil {
			input[c.name] = raw
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "db",
		Result:  v,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			integralHook,
			mapstructure.StringToTimeHookFunc(TimeLayout),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func decimalHook(_, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	return toDecimal(data)
}

// integralHook rejects fractional JSON numbers headed for integer fields.
func integralHook(_, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	if f, ok := data.(float64); ok && f != math.Trunc(f) {
		return nil, fmt.Errorf("expected integer, got %v", f)
	}
	return data, nil
}

func toDecimal(raw any) (Decimal, error) {
	switch n := raw.(type) {
	case Decimal:
		return n, nil
	case string:
		return ParseDecimal(n)
	case json.Number:
		return ParseDecimal(n.String())
	case float64:
		return ParseDecimal(strconv.FormatFloat(n, 'f', -1, 64))
	case int:
		return DecimalFromInt(int64(n)), nil
	case int64:
		return DecimalFromInt(n), nil
	default:
		return Decimal{}, fmt.Errorf("expected decimal, got %T", raw)
	}
}

// nested returns the mapping stored under key, or nil when absent or null.
func nested(m Flattened, key string) (Flattened, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %s: expected mapping, got %T", key, raw)
	}
	return sub, nil
}

// nestedList returns the mappings stored under key. present is false when the
// key is absent, which callers use to tell "not fetched" from "empty".
func nestedList(m Flattened, key string) (items []Flattened, present bool, err error) {
	raw, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	switch list := raw.(type) {
	case nil:
		return nil, true, nil
	case []Flattened:
		return list, true, nil
	case []any:
		items = make([]Flattened, 0, len(list))
		for _, item := range list {
			sub, ok := item.(map[string]any)
			if !ok {
				return nil, true, fmt.Errorf("field %s: expected mapping element, got %T", key, item)
			}
			items = append(items, sub)
		}
		return items, true, nil
	default:
		return nil, true, fmt.Errorf("field %s: expected list, got %T", key, raw)
	}
}

// reconstructList rebuilds every mapping under key with build. The result is
// nil when the key is absent and non-nil otherwise.
func reconstructList[T any](m Flattened, key string, build func(Flattened) (*T, error)) ([]*T, error) {
	items, present, err := nestedList(m, key)
	if err != nil || !present {
		return nil, err
	}
	out := make([]*T, 0, len(items))
	for _, item := range items {
		v, err := build(item)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// flattenList flattens a fetched collection; callers only invoke it for
// non-nil slices so an empty collection stays an empty sequence.
func flattenList[T interface{ Flatten() Flattened }](items []T) []Flattened {
	out := make([]Flattened, 0, len(items))
	for _, item := range items {
		out = append(out, item.Flatten())
	}
	return out
}
