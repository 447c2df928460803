package differentiable

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/tangent"
)

func (s *Schema) check(v reflect.Value) {
	if v.Type() != s.typ {
		panic(fmt.Sprintf("differentiable: value of type %s used with schema of %s", v.Type(), s.typ))
	}
}

// Tangent builds the tangent of v, taking each leaf's component from fn.
func (s *Schema) Tangent(v reflect.Value, fn func(i int, x autodiff.Var) float64) tangent.Vector {
	s.check(v)
	i := 0
	return s.root.tangent(v, &i, fn)
}

// Zero returns the zero tangent of v.
func (s *Schema) Zero(v reflect.Value) tangent.Vector {
	return s.Tangent(v, func(int, autodiff.Var) float64 { return 0 })
}

// Primal returns the primal values of v's leaves shaped as a tangent.
func (s *Schema) Primal(v reflect.Value) tangent.Vector {
	return s.Tangent(v, func(_ int, x autodiff.Var) float64 { return x.Value() })
}

func (n *node) tangent(v reflect.Value, i *int, fn func(int, autodiff.Var) float64) tangent.Vector {
	switch n.kind {
	case leafKind:
		d := fn(*i, v.Interface().(autodiff.Var))
		*i++
		return tangent.Scalar(d)
	case structKind:
		fields := make([]tangent.Vector, len(n.fields))
		for j, f := range n.fields {
			fields[j] = f.node.tangent(v.Field(f.index), i, fn)
		}
		return tangent.NewStruct(n.names, fields)
	default:
		out := make(tangent.Tuple, v.Len())
		for j := range out {
			out[j] = n.elem.tangent(v.Index(j), i, fn)
		}
		return out
	}
}

// Extract returns v's leaves in schema order.
func (s *Schema) Extract(v reflect.Value) []autodiff.Var {
	var out []autodiff.Var
	s.Tangent(v, func(_ int, x autodiff.Var) float64 {
		out = append(out, x)
		return 0
	})
	return out
}

// Paths returns the path of every leaf of v in schema order. A bare Var
// has the single path "".
func (s *Schema) Paths(v reflect.Value) []string {
	s.check(v)
	var out []string
	s.root.paths(v, "", &out)
	return out
}

func (n *node) paths(v reflect.Value, prefix string, out *[]string) {
	switch n.kind {
	case leafKind:
		*out = append(*out, prefix)
	case structKind:
		for _, f := range n.fields {
			p := f.name
			if prefix != "" {
				p = prefix + "." + f.name
			}
			f.node.paths(v.Field(f.index), p, out)
		}
	default:
		for j := 0; j < v.Len(); j++ {
			n.elem.paths(v.Index(j), prefix+"["+strconv.Itoa(j)+"]", out)
		}
	}
}

// Bind returns a deep copy of v with every leaf replaced by fn(i, leaf).
// Excluded and unexported fields are copied unchanged; slices get fresh
// backing arrays so the copy never aliases v.
func (s *Schema) Bind(v reflect.Value, fn func(i int, x autodiff.Var) autodiff.Var) reflect.Value {
	s.check(v)
	out := reflect.New(s.typ).Elem()
	out.Set(v)
	i := 0
	s.root.bind(out, &i, fn)
	return out
}

func (n *node) bind(dst reflect.Value, i *int, fn func(int, autodiff.Var) autodiff.Var) {
	switch n.kind {
	case leafKind:
		x := fn(*i, dst.Interface().(autodiff.Var))
		dst.Set(reflect.ValueOf(x))
		*i++
	case structKind:
		for _, f := range n.fields {
			f.node.bind(dst.Field(f.index), i, fn)
		}
	case sliceKind:
		if dst.IsNil() {
			return
		}
		fresh := reflect.MakeSlice(dst.Type(), dst.Len(), dst.Len())
		reflect.Copy(fresh, dst)
		dst.Set(fresh)
		fallthrough
	case arrayKind:
		for j := 0; j < dst.Len(); j++ {
			n.elem.bind(dst.Index(j), i, fn)
		}
	}
}

// Resolve returns the indices of the leaves addressed by path. A path may
// name a single leaf or a whole subtree; the empty path names every leaf.
//
// Returns an error wrapping ErrFieldNotDifferentiable if the path names a
// field tagged ad:"-", and ErrUnknownField if it names nothing.
func (s *Schema) Resolve(v reflect.Value, path string) ([]int, error) {
	s.check(v)
	start, end, err := s.root.resolve(v, tangent.SplitPath(path), 0)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return idx, nil
}

func (n *node) resolve(v reflect.Value, segs []string, offset int) (int, int, error) {
	if len(segs) == 0 {
		return offset, offset + n.count(v), nil
	}
	seg := segs[0]
	switch n.kind {
	case structKind:
		for _, f := range n.fields {
			fv := v.Field(f.index)
			if f.name == seg {
				return f.node.resolve(fv, segs[1:], offset)
			}
			offset += f.node.count(fv)
		}
		for _, name := range n.excluded {
			if name == seg {
				return 0, 0, fmt.Errorf("%w: %s is tagged ad:\"-\"", ErrFieldNotDifferentiable, seg)
			}
		}
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownField, seg)
	case arrayKind, sliceKind:
		k, ok := parseIndex(seg)
		if !ok || k >= v.Len() {
			return 0, 0, fmt.Errorf("%w: index %s out of range [0, %d)", ErrUnknownField, seg, v.Len())
		}
		for j := 0; j < k; j++ {
			offset += n.elem.count(v.Index(j))
		}
		return n.elem.resolve(v.Index(k), segs[1:], offset)
	default:
		return 0, 0, fmt.Errorf("%w: %s selects inside a scalar", ErrUnknownField, seg)
	}
}

// count returns the number of leaves below n.
func (n *node) count(v reflect.Value) int {
	switch n.kind {
	case leafKind:
		return 1
	case structKind:
		c := 0
		for _, f := range n.fields {
			c += f.node.count(v.Field(f.index))
		}
		return c
	default:
		c := 0
		for j := 0; j < v.Len(); j++ {
			c += n.elem.count(v.Index(j))
		}
		return c
	}
}

func parseIndex(seg string) (int, bool) {
	if len(seg) < 3 || seg[0] != '[' || seg[len(seg)-1] != ']' {
		return 0, false
	}
	k, err := strconv.Atoi(seg[1 : len(seg)-1])
	return k, err == nil && k >= 0
}
