package tlv

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Struct tags read by Unmarshal:
//
//	tlv:"9F6E"      the field receives the packet carrying that tag
//	tlv:",unknown"  []bertlv.TLV collecting the packets no field claimed
//	fmt:"int"       rendering of a string field (see FormatValue), hex by default
//
// Supported field types: []byte (raw value), string (formatted value),
// []bertlv.TLV (children of a constructed packet), struct or *struct (mapped
// from the children), any type implementing Unmarshaler, and slices of those,
// which get one element per occurrence of the tag.

// ErrInvalidTarget is returned when the target is not a non-nil struct pointer.
var ErrInvalidTarget = errors.New("target must be a non-nil pointer to a struct")

// Unmarshaler is implemented by types decoding their own value bytes.
type Unmarshaler interface {
	UnmarshalTLV(value []byte) error
}

var packetsType = reflect.TypeOf([]bertlv.TLV(nil))

// Unmarshal decodes data strictly and maps the top-level packets into target.
func Unmarshal(data []byte, target any) error {
	packets, err := DecodeTree(data)
	if err != nil {
		return err
	}
	return UnmarshalFromPackets(packets, target)
}

// UnmarshalFromPackets maps already decoded packets into target.
func UnmarshalFromPackets(packets []bertlv.TLV, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	return unmarshalStruct(packets, v.Elem())
}

func unmarshalStruct(packets []bertlv.TLV, v reflect.Value) error {
	t := v.Type()
	claimed := make([]bool, len(packets))
	leftover := -1

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		spec, ok := sf.Tag.Lookup("tlv")
		if !ok || !sf.IsExported() {
			continue
		}

		tag, opt, _ := strings.Cut(spec, ",")
		if opt == "unknown" {
			leftover = i
			continue
		}

		for j, p := range packets {
			if !strings.EqualFold(p.Tag, tag) {
				continue
			}
			if err := setField(v.Field(i), p, sf.Tag.Get("fmt")); err != nil {
				return fmt.Errorf("%s.%s (tag %s): %w", t.Name(), sf.Name, tag, err)
			}
			claimed[j] = true
		}
	}

	if leftover < 0 {
		return nil
	}
	f := v.Field(leftover)
	if f.Type() != packetsType {
		return fmt.Errorf("%s.%s: unknown field must be []bertlv.TLV", t.Name(), t.Field(leftover).Name)
	}
	for j, p := range packets {
		if !claimed[j] {
			f.Set(reflect.Append(f, reflect.ValueOf(p)))
		}
	}
	return nil
}

// setField stores p into f, appending when f is a slice of elements.
func setField(f reflect.Value, p bertlv.TLV, format string) error {
	if f.Kind() == reflect.Slice && f.Type() != packetsType && !isBytes(f.Type()) {
		elem := reflect.New(f.Type().Elem()).Elem()
		if err := setValue(elem, p, format); err != nil {
			return err
		}
		f.Set(reflect.Append(f, elem))
		return nil
	}
	return setValue(f, p, format)
}

func setValue(f reflect.Value, p bertlv.TLV, format string) error {
	if f.CanAddr() {
		if u, ok := f.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalTLV(RawValue(p))
		}
	}

	switch {
	case f.Type() == packetsType:
		children, err := childPackets(p)
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(children))
	case isBytes(f.Type()):
		f.SetBytes(RawValue(p))
	case f.Kind() == reflect.String:
		f.SetString(FormatValue(RawValue(p), format))
	case f.Kind() == reflect.Struct:
		children, err := childPackets(p)
		if err != nil {
			return err
		}
		return unmarshalStruct(children, f)
	case f.Kind() == reflect.Pointer && f.Type().Elem().Kind() == reflect.Struct:
		children, err := childPackets(p)
		if err != nil {
			return err
		}
		if f.IsNil() {
			f.Set(reflect.New(f.Type().Elem()))
		}
		return unmarshalStruct(children, f.Elem())
	default:
		return fmt.Errorf("unsupported field type %s", f.Type())
	}
	return nil
}

// childPackets returns the nested packets of p. bertlv only splits constructed
// tags, so a primitive value is decoded here when a struct expects children.
func childPackets(p bertlv.TLV) ([]bertlv.TLV, error) {
	if len(p.TLVs) > 0 || len(p.Value) == 0 {
		return p.TLVs, nil
	}
	return DecodeTree(p.Value)
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
