package csg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned for nil, empty or malformed operands.
var ErrInvalidArgument = errors.New("csg: invalid argument")

// Op is a boolean operator.
type Op int

const (
	OpUnion Op = iota
	OpSubtract
	OpIntersect
)

var opNames = map[Op]string{
	OpUnion:     "union",
	OpSubtract:  "subtract",
	OpIntersect: "intersect",
}

var opsByName = map[string]Op{
	"union":        OpUnion,
	"subtract":     OpSubtract,
	"difference":   OpSubtract,
	"intersect":    OpIntersect,
	"intersection": OpIntersect,
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp parses an operator name, case-insensitively. "difference" and
// "intersection" are accepted as aliases.
func ParseOp(s string) (Op, error) {
	o, ok := opsByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidArgument, s)
	}
	return o, nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Op) MarshalText() ([]byte, error) {
	s, ok := opNames[o]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %d", ErrInvalidArgument, int(o))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Op) UnmarshalText(b []byte) error {
	v, err := ParseOp(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
