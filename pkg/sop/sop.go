// Package sop implements sum-of-products covers for Boolean logic nodes.
//
// A cover is a set of cubes (product terms) over an ordered list of input
// variables. Each cube assigns one literal per variable:
//
//	'1' - the variable appears positively
//	'0' - the variable appears complemented
//	'-' - the variable does not appear in the cube
//
// The textual form is one cube per line, e.g. a two-variable AND is "11"
// and a two-variable OR is "1-\n-1". Variable order is positional and
// mirrors the fanin order of the node that owns the cover.
//
// The package deliberately stops short of cover minimization or
// canonicalization - covers are containers with cheap structural queries,
// not a cube-algebra engine.
package sop

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrBadLiteral is returned by [Parse] and [Cover.AddCube] when a cube
	// contains a character other than '0', '1' or '-'.
	ErrBadLiteral = errors.New("literal must be '0', '1' or '-'")

	// ErrArityMismatch is returned by [Cover.AddCube] when a cube's length
	// does not match the cover's variable count.
	ErrArityMismatch = errors.New("cube length does not match variable count")

	// ErrEmptyCover is returned by [Parse] when the input contains no cubes.
	ErrEmptyCover = errors.New("cover has no cubes")
)

// Literal values within a cube.
const (
	LitNeg  = '0' // complemented variable
	LitPos  = '1' // positive variable
	LitNone = '-' // variable absent from the cube
)

// Cover is a sum-of-products representation of a Boolean function.
// The zero value is a cover over zero variables with no cubes.
// Cover is not safe for concurrent mutation.
type Cover struct {
	vars  int
	cubes []string
}

// New creates an empty cover over the given number of variables.
func New(vars int) *Cover {
	return &Cover{vars: vars}
}

// Parse decodes the textual cover form: one cube per line, each line one
// literal per variable. Blank lines are ignored. All cubes must have the
// same length, which becomes the variable count.
func Parse(s string) (*Cover, error) {
	var cubes []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cubes = append(cubes, line)
	}
	if len(cubes) == 0 {
		return nil, ErrEmptyCover
	}
	c := New(len(cubes[0]))
	for _, cube := range cubes {
		if err := c.AddCube(cube); err != nil {
			return nil, fmt.Errorf("cube %q: %w", cube, err)
		}
	}
	return c, nil
}

// MustParse is like [Parse] but panics on malformed input.
// Intended for fixed covers in tests and examples.
func MustParse(s string) *Cover {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// AddCube appends a cube to the cover.
// The cube must have exactly one literal per variable.
func (c *Cover) AddCube(cube string) error {
	if len(cube) != c.vars {
		return fmt.Errorf("%w: got %d, want %d", ErrArityMismatch, len(cube), c.vars)
	}
	for _, l := range cube {
		if l != LitNeg && l != LitPos && l != LitNone {
			return fmt.Errorf("%w: %q", ErrBadLiteral, l)
		}
	}
	c.cubes = append(c.cubes, cube)
	return nil
}

// VarNum returns the number of input variables.
func (c *Cover) VarNum() int { return c.vars }

// CubeNum returns the number of cubes (product terms).
func (c *Cover) CubeNum() int { return len(c.cubes) }

// Cube returns the i-th cube. It panics if i is out of range.
func (c *Cover) Cube(i int) string { return c.cubes[i] }

// Cubes returns a copy of all cubes in insertion order.
func (c *Cover) Cubes() []string { return slices.Clone(c.cubes) }

// Literals counts the literals across all cubes ('0' and '1' positions).
// This is the usual cost metric for SOP networks.
func (c *Cover) Literals() int {
	n := 0
	for _, cube := range c.cubes {
		for i := 0; i < len(cube); i++ {
			if cube[i] != LitNone {
				n++
			}
		}
	}
	return n
}

// Clone returns an independent copy of the cover.
func (c *Cover) Clone() *Cover {
	return &Cover{vars: c.vars, cubes: slices.Clone(c.cubes)}
}

// Equal reports whether two covers have the same variable count and the
// same cube sequence. Covers are compared structurally, not semantically:
// logically equivalent but differently written covers are not Equal.
func (c *Cover) Equal(o *Cover) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.vars == o.vars && slices.Equal(c.cubes, o.cubes)
}

// String returns the textual cover form, one cube per line.
func (c *Cover) String() string {
	return strings.Join(c.cubes, "\n")
}
