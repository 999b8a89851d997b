package selector

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/zero-day-ai/metadata"
)

// Variable is the name under which a snapshot is visible to expressions.
const Variable = "meta"

// Common errors returned by selector operations.
var (
	// ErrEmptyExpression is returned when compiling a blank expression.
	ErrEmptyExpression = errors.New("selector: empty expression")

	// ErrNotBoolean is returned when an expression does not produce a bool.
	ErrNotBoolean = errors.New("selector: expression is not boolean")
)

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

// environment returns the shared CEL environment declaring Variable as
// map(string, dyn).
func environment() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable(Variable, cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return env, envErr
}

// Selector is a compiled predicate over snapshots. It is immutable and safe
// for concurrent use.
type Selector struct {
	expr string
	prg  cel.Program
}

// Compile parses and checks a CEL expression. The expression must produce a
// bool (or a dynamic value checked at evaluation time).
//
//	sel, err := selector.Compile(`meta.env == "prod" && has(meta.owner)`)
func Compile(expr string) (*Selector, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}

	e, err := environment()
	if err != nil {
		return nil, fmt.Errorf("selector: create environment: %w", err)
	}

	ast, iss := e.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("selector: compile %q: %w", expr, iss.Err())
	}

	switch ast.OutputType().Kind() {
	case types.BoolKind, types.DynKind:
	default:
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBoolean, expr, ast.OutputType())
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("selector: program %q: %w", expr, err)
	}

	return &Selector{expr: expr, prg: prg}, nil
}

// MustCompile is like Compile but panics on error. It simplifies
// initialization of package-level selectors.
func MustCompile(expr string) *Selector {
	s, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expr
}

// Match evaluates the expression against m. Nested snapshots are visible as
// nested maps, so `meta.limits.cpu` reads a nested entry.
func (s *Selector) Match(m metadata.Metadata) (bool, error) {
	if m == nil {
		return false, fmt.Errorf("selector: match: %w", metadata.ErrNilArgument)
	}

	out, _, err := s.prg.Eval(map[string]any{Variable: metadata.ToMap(m)})
	if err != nil {
		return false, fmt.Errorf("selector: evaluate %q: %w", s.expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q produced %s", ErrNotBoolean, s.expr, out.Type())
	}
	return b, nil
}

// Filter returns the snapshots matched by s, in their original order. It
// stops at the first evaluation error.
func (s *Selector) Filter(ms []metadata.Metadata) ([]metadata.Metadata, error) {
	var out []metadata.Metadata
	for i, m := range ms {
		ok, err := s.Match(m)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}
