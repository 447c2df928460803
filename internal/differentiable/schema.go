// Package differentiable maps Go values onto tangent vectors.
//
// A differentiable value is an autodiff.Var, or a struct, array or slice
// built from differentiable values. Struct fields are included by default;
// a field tagged ad:"-" is excluded from the tangent and never traced, and
// ad:"name" renames it. Untagged fields of any other type are rejected when
// the schema is built, so a float64 configuration constant has to be
// excluded explicitly.
//
//	type Tube struct {
//	    Diameter   autodiff.Var
//	    Length     autodiff.Var
//	    Material   string  `ad:"-"`
//	}
//
// Leaves are numbered depth first in field declaration order. Their paths
// ("diameter", "layers[1].bias") address the same entries as tangent.At.
package differentiable

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/born-ml/gradtape/internal/autodiff"
)

var varType = reflect.TypeOf(autodiff.Var{})

type kind uint8

const (
	leafKind kind = iota
	structKind
	arrayKind
	sliceKind
)

type field struct {
	name  string
	index int
	node  *node
}

type node struct {
	kind     kind
	fields   []field  // structKind
	names    []string // structKind, parallel to fields
	excluded []string // structKind, names of ad:"-" fields
	elem     *node    // arrayKind, sliceKind
}

// Schema describes the differentiable structure of one Go type.
// A Schema is immutable and safe for concurrent use.
type Schema struct {
	typ  reflect.Type
	root *node
}

var schemas sync.Map // reflect.Type -> *Schema

// SchemaOf returns the schema of t, building and caching it on first use.
func SchemaOf(t reflect.Type) (*Schema, error) {
	if s, ok := schemas.Load(t); ok {
		return s.(*Schema), nil
	}
	root, err := build(t, nil)
	if err != nil {
		return nil, err
	}
	s, _ := schemas.LoadOrStore(t, &Schema{typ: t, root: root})
	return s.(*Schema), nil
}

// For returns the schema of T.
func For[T any]() (*Schema, error) {
	return SchemaOf(reflect.TypeOf((*T)(nil)).Elem())
}

// Type returns the Go type the schema describes.
func (s *Schema) Type() reflect.Type { return s.typ }

func build(t reflect.Type, parents []reflect.Type) (*node, error) {
	if t == varType {
		return &node{kind: leafKind}, nil
	}
	switch t.Kind() {
	case reflect.Struct:
		if slices.Contains(parents, t) {
			return nil, fmt.Errorf("%w: %s contains itself", ErrNotDifferentiable, t)
		}
		parents = append(parents, t)
		n := &node{kind: structKind}
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			name, excluded := fieldName(sf)
			if excluded {
				n.excluded = append(n.excluded, name)
				continue
			}
			child, err := build(sf.Type, parents)
			if err != nil {
				if isLeafKind(sf.Type) {
					return nil, &FieldError{Struct: t, Field: sf.Name, Type: sf.Type}
				}
				return nil, err
			}
			n.fields = append(n.fields, field{name: name, index: i, node: child})
			n.names = append(n.names, name)
		}
		return n, nil
	case reflect.Array, reflect.Slice:
		elem, err := build(t.Elem(), parents)
		if err != nil {
			return nil, err
		}
		k := arrayKind
		if t.Kind() == reflect.Slice {
			k = sliceKind
		}
		return &node{kind: k, elem: elem}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotDifferentiable, t)
	}
}

// isLeafKind reports whether a failed field type is itself the culprit, as
// opposed to a composite that failed deeper down.
func isLeafKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Array, reflect.Slice:
		return false
	}
	return true
}

// fieldName returns the tangent name of sf and whether it is excluded.
func fieldName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("ad")
	if ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return lowerFirst(sf.Name), true
		}
		if name != "" {
			return name, false
		}
	}
	return lowerFirst(sf.Name), false
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
