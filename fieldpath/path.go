package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPath is returned for malformed field path expressions.
	ErrInvalidPath = errors.New("invalid field path")

	// ErrFieldNotFound is returned when a path names a field its type does
	// not declare.
	ErrFieldNotFound = errors.New("field not found")

	// ErrNotCreatable is returned when a missing field along the path has
	// no empty value to create, e.g. a field declared any.
	ErrNotCreatable = errors.New("missing field cannot be created")
)

// SyntaxError reports a malformed field path expression.
type SyntaxError struct {
	Expr   string
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid field path %q at offset %d: %s", e.Expr, e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrInvalidPath }

// SegmentKind identifies the kind of a path segment.
type SegmentKind uint8

const (
	// SegmentField selects a struct field by name.
	SegmentField SegmentKind = iota
	// SegmentIndex selects one collection element by position.
	SegmentIndex
	// SegmentWildcard selects every collection element.
	SegmentWildcard
)

// Segment is one step of a field path.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Index int
}

// Field returns a field segment.
func Field(name string) Segment { return Segment{Kind: SegmentField, Name: name} }

// Index returns a position segment.
func Index(i int) Segment { return Segment{Kind: SegmentIndex, Index: i} }

// Wildcard returns a segment selecting all collection elements.
func Wildcard() Segment { return Segment{Kind: SegmentWildcard} }

// String returns the segment in path syntax.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentIndex:
		return "[" + strconv.Itoa(s.Index) + "]"
	case SegmentWildcard:
		return "[*]"
	default:
		return s.Name
	}
}

// Path is a parsed field path such as "items[*].tags".
type Path []Segment

// Parse parses a field path expression.
//
// The grammar is a field name followed by any number of ".name", "[N]" and
// "[*]" steps. Field names consist of letters, digits and underscores.
func Parse(expr string) (Path, error) {
	p := parser{expr: expr}
	return p.parse()
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the path in its textual form. Parse(p.String()) yields p.
func (p Path) String() string {
	var sb strings.Builder
	for i, s := range p {
		if s.Kind == SegmentField && i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

type parser struct {
	expr string
	pos  int
}

func (p *parser) parse() (Path, error) {
	if p.expr == "" {
		return nil, p.fail("empty path")
	}
	var path Path
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	path = append(path, Field(name))

	for p.pos < len(p.expr) {
		switch p.expr[p.pos] {
		case '.':
			p.pos++
			name, err := p.name()
			if err != nil {
				return nil, err
			}
			path = append(path, Field(name))
		case '[':
			seg, err := p.subscript()
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
		default:
			return nil, p.fail(fmt.Sprintf("unexpected %q", p.expr[p.pos]))
		}
	}
	return path, nil
}

func (p *parser) name() (string, error) {
	start := p.pos
	for p.pos < len(p.expr) && isNameByte(p.expr[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.fail("expected field name")
	}
	return p.expr[start:p.pos], nil
}

func (p *parser) subscript() (Segment, error) {
	p.pos++ // '['
	end := strings.IndexByte(p.expr[p.pos:], ']')
	if end < 0 {
		return Segment{}, p.fail("unterminated subscript")
	}
	body := p.expr[p.pos : p.pos+end]
	if body == "*" {
		p.pos += end + 1
		return Wildcard(), nil
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return Segment{}, p.fail("subscript must be a non-negative integer or *")
		}
	}
	i, err := strconv.Atoi(body)
	if err != nil {
		return Segment{}, p.fail("subscript must be a non-negative integer or *")
	}
	p.pos += end + 1
	return Index(i), nil
}

func (p *parser) fail(reason string) error {
	return &SyntaxError{Expr: p.expr, Offset: p.pos, Reason: reason}
}

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
