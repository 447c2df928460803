package tangent

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoSuchPath is returned by At when a path does not name a sub-tangent.
var ErrNoSuchPath = errors.New("no such tangent path")

// At returns the sub-tangent addressed by path.
//
// Paths join field names with dots and address tuple elements with
// brackets: "tube.diameter", "layers[1].bias", "[0]". The empty path
// returns v itself.
func At(v Vector, path string) (Vector, error) {
	cur := v
	for _, seg := range SplitPath(path) {
		switch c := cur.(type) {
		case Struct:
			f, ok := c.Field(seg)
			if !ok {
				return nil, fmt.Errorf("%w: %q has no field %q", ErrNoSuchPath, path, seg)
			}
			cur = f
		case Tuple:
			i, err := parseIndex(seg)
			if err != nil || i >= len(c) {
				return nil, fmt.Errorf("%w: %q: bad index %q", ErrNoSuchPath, path, seg)
			}
			cur = c[i]
		default:
			return nil, fmt.Errorf("%w: %q descends into a scalar", ErrNoSuchPath, path)
		}
	}
	return cur, nil
}

// SplitPath splits "a.b[2].c" into ["a", "b", "[2]", "c"].
func SplitPath(path string) []string {
	var segs []string
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			switch {
			case open < 0:
				segs = append(segs, part)
				part = ""
			case open > 0:
				segs = append(segs, part[:open])
				part = part[open:]
			default:
				end := strings.IndexByte(part, ']')
				if end < 0 {
					segs = append(segs, part)
					part = ""
					continue
				}
				segs = append(segs, part[:end+1])
				part = part[end+1:]
			}
		}
	}
	return segs
}

func parseIndex(seg string) (int, error) {
	if len(seg) < 3 || seg[0] != '[' || seg[len(seg)-1] != ']' {
		return 0, fmt.Errorf("not an index: %q", seg)
	}
	i, err := strconv.Atoi(seg[1 : len(seg)-1])
	if err != nil || i < 0 {
		return 0, fmt.Errorf("not an index: %q", seg)
	}
	return i, nil
}
