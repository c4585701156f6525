// Package cel evaluates CEL expressions against grid records. The record is
// bound to the variable "_", so a filter reads like `_.amount > 100`.
package cel

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// RowVar is the name records are bound to.
const RowVar = "_"

// Evaluator compiles expressions in a shared environment.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the standard library and the
// strings, encoders, lists and math extensions.
func NewEvaluator(opts ...cel.EnvOption) (*Evaluator, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Environment returns the CEL environment for introspection.
func (e *Evaluator) Environment() *cel.Env {
	return e.env
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable(RowVar, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Program is a compiled expression.
type Program struct {
	source string
	prg    cel.Program
	fields []string
}

// Compile parses and type-checks src.
func (e *Evaluator) Compile(src string) (*Program, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty expression")
	}
	ast, issues := e.env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	p := &Program{source: src, prg: prg}
	if parsed, err := cel.AstToParsedExpr(ast); err == nil {
		p.fields = rowFields(parsed.GetExpr())
	}
	return p, nil
}

// CompileFilter compiles a row predicate. Expressions whose type is known
// not to be bool are rejected up front.
func (e *Evaluator) CompileFilter(src string) (*Program, error) {
	ast, issues := e.env.Compile(strings.TrimSpace(src))
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if k := ast.OutputType().Kind(); k != types.BoolKind && k != types.DynKind {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}
	return e.Compile(src)
}

// Source returns the expression text.
func (p *Program) Source() string {
	return p.source
}

// Fields returns the top-level record fields the expression reads, in order
// of first use.
func (p *Program) Fields() []string {
	return append([]string(nil), p.fields...)
}

// Eval evaluates the program with row bound to "_" and converts the result
// to Go values.
func (p *Program) Eval(row any) (any, error) {
	out, _, err := p.prg.Eval(map[string]any{RowVar: row})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(out), nil
}

// Match evaluates a filter. A result that is not a bool is an error.
func (p *Program) Match(row any) (bool, error) {
	v, err := p.Eval(row)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", p.source, v)
	}
	return b, nil
}

// Filter keeps the rows the program matches. Rows whose evaluation fails are
// dropped and counted; the first such error is returned with the count.
func Filter[T any](p *Program, rows []T) (kept []T, failed int, firstErr error) {
	kept = make([]T, 0, len(rows))
	for _, r := range rows {
		ok, err := p.Match(r)
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			kept = append(kept, r)
		}
	}
	return kept, failed, firstErr
}

// rowFields walks a parsed expression and collects the fields selected
// directly on the row variable, both `_.name` and `_["name"]`.
func rowFields(expr *exprpb.Expr) []string {
	var fields []string
	add := func(name string) {
		if !slices.Contains(fields, name) {
			fields = append(fields, name)
		}
	}
	isRow := func(e *exprpb.Expr) bool {
		return e.GetIdentExpr() != nil && e.GetIdentExpr().GetName() == RowVar
	}

	var walk func(*exprpb.Expr)
	walk = func(e *exprpb.Expr) {
		if e == nil {
			return
		}
		switch e.ExprKind.(type) {
		case *exprpb.Expr_SelectExpr:
			sel := e.GetSelectExpr()
			if isRow(sel.GetOperand()) {
				add(sel.GetField())
				return
			}
			walk(sel.GetOperand())
		case *exprpb.Expr_CallExpr:
			call := e.GetCallExpr()
			if call.GetFunction() == "_[_]" && len(call.GetArgs()) == 2 && isRow(call.GetArgs()[0]) {
				if key := call.GetArgs()[1].GetConstExpr(); key != nil {
					if s, ok := key.GetConstantKind().(*exprpb.Constant_StringValue); ok {
						add(s.StringValue)
						return
					}
				}
			}
			walk(call.GetTarget())
			for _, arg := range call.GetArgs() {
				walk(arg)
			}
		case *exprpb.Expr_ListExpr:
			for _, el := range e.GetListExpr().GetElements() {
				walk(el)
			}
		case *exprpb.Expr_StructExpr:
			for _, entry := range e.GetStructExpr().GetEntries() {
				walk(entry.GetMapKey())
				walk(entry.GetValue())
			}
		case *exprpb.Expr_ComprehensionExpr:
			c := e.GetComprehensionExpr()
			walk(c.GetIterRange())
			walk(c.GetAccuInit())
			walk(c.GetLoopCondition())
			walk(c.GetLoopStep())
			walk(c.GetResult())
		}
	}
	walk(expr)
	return fields
}

// ToGo converts CEL values to plain Go values, recursing into lists and maps.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	case types.Timestamp:
		return v.Time
	case types.Duration:
		return v.Duration
	}

	if valuer, ok := val.(interface{ Value() any }); ok {
		return convertNative(valuer.Value())
	}
	return val
}

func convertNative(v any) any {
	switch x := v.(type) {
	case ref.Val:
		return ToGo(x)
	case []ref.Val:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = ToGo(el)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = convertNative(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			out[k] = convertNative(el)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(x))
		for k, el := range x {
			out[fmt.Sprint(ToGo(k))] = ToGo(el)
		}
		return out
	}
	return v
}

// Functions lists the callable functions and macros of the environment,
// without operators, sorted by name.
func (e *Evaluator) Functions() []string {
	seen := make(map[string]bool)
	for _, fn := range e.env.Functions() {
		if !isOperator(fn.Name()) {
			seen[fn.Name()] = true
		}
	}
	for _, m := range e.env.Macros() {
		if !isOperator(m.Function()) {
			seen[m.Function()] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isOperator filters internal operator-style declarations such as _+_ or
// @in.
func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	return strings.HasPrefix(name, "!_") || strings.HasPrefix(name, "-_") || name == "_[_]"
}

// Suggestions returns completions for a filter input: row fields written as
// `_.key` followed by function names.
func (e *Evaluator) Suggestions(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if isIdent(c) {
			out = append(out, RowVar+"."+c)
		} else {
			out = append(out, fmt.Sprintf("%s[%q]", RowVar, c))
		}
	}
	return append(out, e.Functions()...)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
