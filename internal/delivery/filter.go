package delivery

import (
	"strings"

	"github.com/google/cel-go/cel"
)

// Filter wraps a compiled CEL program evaluated against a message at
// fan-out time. A disabled filter admits everything.
type Filter struct {
	prog    cel.Program
	enabled bool
}

// NewFilter compiles expr. An empty expression yields a disabled filter.
// The expression sees:
//
//	attributes  map[string]string  message attributes
//	size        int                payload size in bytes
//	topic       string             topic the message was published to
func NewFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("attributes", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("size", cel.IntType),
		cel.Variable("topic", cel.StringType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, iss.Err()
	}
	prog, err := env.Program(ast)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, enabled: true}, nil
}

// Eval reports whether the message passes the filter. Evaluation errors
// reject the message rather than failing the publish.
func (f Filter) Eval(topic string, attributes map[string]string, size int) bool {
	if !f.enabled {
		return true
	}
	if attributes == nil {
		attributes = map[string]string{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"attributes": attributes,
		"size":       int64(size),
		"topic":      topic,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
