package grammar

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/feed"
	"github.com/ava12/chunkparse/match"
	"github.com/ava12/chunkparse/stream"
)

const maxCallDepth = 256

func unknownVarError(name string) *chunkparse.Error {
	return chunkparse.FormatError(ErrUnknownVar, "unknown variable: %s", name)
}

func unknownFuncError(name string) *chunkparse.Error {
	return chunkparse.FormatError(ErrUnknownFunc, "unknown function: %s", name)
}

func argCountError(name string, expected, got int) *chunkparse.Error {
	return chunkparse.FormatError(ErrArgCount, "wrong number of arguments for %s: expecting %d, got %d", name, expected, got)
}

func argDefinedError(name string) *chunkparse.Error {
	return chunkparse.FormatError(ErrArgDefined, "argument %s already defined", name)
}

func callDepthError(name string) *chunkparse.Error {
	return chunkparse.FormatError(ErrCallDepth, "call depth exceeded in %s", name)
}

type function struct {
	name   string
	params []string
	body   expr
}

func (f *function) call(sc *scope, args []float64) (float64, error) {
	if len(args) != len(f.params) {
		return 0, argCountError(f.name, len(f.params), len(args))
	}
	if sc.depth >= maxCallDepth {
		return 0, callDepthError(f.name)
	}

	inner := newScope(sc)
	for i, name := range f.params {
		inner.vars[name] = args[i]
	}
	return f.body.eval(inner)
}

type scope struct {
	parent    *scope
	depth     int
	vars      map[string]float64
	functions map[string]*function
}

func newScope(parent *scope) *scope {
	sc := &scope{parent: parent, vars: make(map[string]float64), functions: make(map[string]*function)}
	if parent != nil {
		sc.depth = parent.depth + 1
	}
	return sc
}

func (sc *scope) variable(name string) (float64, error) {
	for ; sc != nil; sc = sc.parent {
		if v, found := sc.vars[name]; found {
			return v, nil
		}
	}
	return 0, unknownVarError(name)
}

func (sc *scope) function(name string) (*function, error) {
	for ; sc != nil; sc = sc.parent {
		if f, found := sc.functions[name]; found {
			return f, nil
		}
	}
	return nil, unknownFuncError(name)
}

type expr interface {
	eval(*scope) (float64, error)
}

type number float64

func (n number) eval(*scope) (float64, error) {
	return float64(n), nil
}

type variable string

func (v variable) eval(sc *scope) (float64, error) {
	return sc.variable(string(v))
}

type negation struct {
	x expr
}

func newNegation(x expr) expr {
	if n, ok := x.(number); ok {
		return -n
	}
	return negation{x}
}

func (n negation) eval(sc *scope) (float64, error) {
	v, e := n.x.eval(sc)
	return -v, e
}

type opVal struct {
	op    rune
	value expr
}

// chain is a left-associative sequence of operations of the same precedence.
type chain struct {
	first  expr
	opVals []opVal
}

func newChain(first expr, opVals []opVal) expr {
	if len(opVals) == 0 {
		return first
	}

	res, ok := first.(number)
	for _, ov := range opVals {
		n, isNumber := ov.value.(number)
		if !ok || !isNumber {
			return chain{first, opVals}
		}
		res = number(apply(float64(res), float64(n), ov.op))
	}
	return res
}

func apply(x, y float64, op rune) float64 {
	switch op {
	case '+':
		return x + y
	case '-':
		return x - y
	case '*':
		return x * y
	case '/':
		return x / y
	}
	panic(fmt.Sprintf("unknown operation %q", op))
}

func (ch chain) eval(sc *scope) (float64, error) {
	res, e := ch.first.eval(sc)
	if e != nil {
		return 0, e
	}

	for _, ov := range ch.opVals {
		v, e := ov.value.eval(sc)
		if e != nil {
			return 0, e
		}
		res = apply(res, v, ov.op)
	}
	return res, nil
}

type power struct {
	base, exp expr
}

func newPower(base, exp expr) expr {
	b, baseIsNumber := base.(number)
	x, expIsNumber := exp.(number)
	if baseIsNumber && expIsNumber {
		return number(math.Pow(float64(b), float64(x)))
	}
	return power{base, exp}
}

func (p power) eval(sc *scope) (float64, error) {
	b, e := p.base.eval(sc)
	if e != nil {
		return 0, e
	}
	x, e := p.exp.eval(sc)
	if e != nil {
		return 0, e
	}
	return math.Pow(b, x), nil
}

type call struct {
	name string
	args []expr
}

func (c call) eval(sc *scope) (float64, error) {
	f, e := sc.function(c.name)
	if e != nil {
		return 0, e
	}

	args := make([]float64, len(c.args))
	for i, x := range c.args {
		args[i], e = x.eval(sc)
		if e != nil {
			return 0, e
		}
	}
	return f.call(sc, args)
}

// Stmt is a parsed calculator statement: an expression, a variable assignment, or a function definition.
type Stmt interface {
	exec(*scope) (float64, error)
}

type exprStmt struct {
	x expr
}

func (s exprStmt) exec(sc *scope) (float64, error) {
	return s.x.eval(sc)
}

type assignment struct {
	name string
	x    expr
}

func (a assignment) exec(sc *scope) (float64, error) {
	v, e := a.x.eval(sc)
	if e == nil {
		sc.vars[a.name] = v
	}
	return v, e
}

type funcDef struct {
	name   string
	params []string
	body   expr
}

func (fd funcDef) exec(sc *scope) (float64, error) {
	for i, p := range fd.params {
		if slices.Contains(fd.params[:i], p) {
			return 0, argDefinedError(p)
		}
	}
	sc.functions[fd.name] = &function{fd.name, fd.params, fd.body}
	return 0, nil
}

func anyOf[T any](m match.Matcher[T]) match.Matcher[any] {
	return match.Must(match.Any(m))
}

func all(ms ...match.Matcher[any]) match.Matcher[[]any] {
	return match.Must(match.All(ms...))
}

func build[T any](m match.Matcher[[]any], fn func([]any) T) match.Matcher[T] {
	return match.Must(match.Map(m, fn))
}

var numberMatcher = func() match.Matcher[expr] {
	digits := match.Must(match.While("digits", isDigit, 1))
	fraction := join(match.Must(match.All(literal("."), digits)))
	sign := match.Must(match.Alt(literal("+"), literal("-")))
	exponent := join(match.Must(match.All(
		match.Must(match.Alt(literal("e"), literal("E"))),
		match.Must(match.Optional(sign)),
		digits,
	)))
	text := join(match.Must(match.All(digits, match.Must(match.Optional(fraction)), match.Must(match.Optional(exponent)))))
	return match.Must(match.Label("number", match.Must(match.Map(text, func(s string) expr {
		// only range errors are possible here, the result is ±Inf or 0 then
		v, _ := strconv.ParseFloat(s, 64)
		return number(v)
	}))))
}()

// expression builds expression grammar. Operands are followed by blanks,
// or by any whitespace if nl is set. Parenthesized subexpressions and call arguments use inner grammar;
// inner nil means the grammar itself.
func expression(nl bool, inner match.Matcher[expr]) match.Matcher[expr] {
	self := &match.Ref[expr]{}
	if inner == nil {
		inner = self
	}

	operator := func(ops ...string) match.Matcher[string] {
		alts := make([]match.Matcher[string], len(ops))
		for i, op := range ops {
			alts[i] = token(literal(op), true)
		}
		return match.Must(match.Alt(alts...))
	}
	term := func(ops string, operand match.Matcher[expr]) match.Matcher[opVal] {
		return build(all(anyOf(operator(strings.Split(ops, "")...)), anyOf(operand)), func(v []any) opVal {
			return opVal{rune(v[0].(string)[0]), v[1].(expr)}
		})
	}
	negated := func(operand match.Matcher[expr]) match.Matcher[expr] {
		neg := build(all(anyOf(operator("-")), anyOf(operand)), func(v []any) expr {
			return newNegation(v[1].(expr))
		})
		return match.Must(match.Alt(neg, operand))
	}

	open := token(literal("("), true)
	closing := token(literal(")"), nl)
	paren := match.Must(match.First(match.Must(match.Discard[expr](open)), inner, match.Must(match.Discard[expr](closing))))
	noArgs := build(all(anyOf(open), anyOf(closing)), func([]any) []expr { return []expr{} })
	args := match.Must(match.Alt(noArgs, match.Must(match.List(open, inner, token(literal(","), true), closing))))
	nameOrCall := build(all(anyOf(token(name, nl)), anyOf(match.Must(match.Optional(args)))), func(v []any) expr {
		if len(v) == 1 {
			return variable(v[0].(string))
		}
		return call{v[0].(string), v[1].([]expr)}
	})
	value := match.Must(match.Alt(token(numberMatcher, nl), paren, nameOrCall))

	pow := &match.Ref[expr]{}
	exponent := match.Must(match.First(match.Must(match.Discard[expr](operator("^"))), negated(pow)))
	e := pow.Set(build(all(anyOf(value), anyOf(match.Must(match.Optional(exponent)))), func(v []any) expr {
		if len(v) == 1 {
			return v[0].(expr)
		}
		return newPower(v[0].(expr), v[1].(expr))
	}))
	if e != nil {
		panic(e)
	}

	chainOf := func(first match.Matcher[expr], ops string, operand match.Matcher[expr]) match.Matcher[expr] {
		return build(all(anyOf(first), anyOf(match.Must(match.ZeroOrMore(term(ops, operand))))), func(v []any) expr {
			return newChain(v[0].(expr), v[1].([]opVal))
		})
	}
	product := chainOf(pow, "*/", pow)
	if e := self.Set(chainOf(negated(product), "+-", product)); e != nil {
		panic(e)
	}
	return self
}

var statement = sync.OnceValue(func() match.Matcher[Stmt] {
	x := expression(false, expression(true, nil))

	assign := build(all(anyOf(token(name, false)), anyOf(token(literal("="), true)), anyOf(x)), func(v []any) Stmt {
		return assignment{v[0].(string), v[2].(expr)}
	})

	open := token(literal("("), true)
	closing := token(literal(")"), false)
	noParams := build(all(anyOf(open), anyOf(closing)), func([]any) []string { return []string{} })
	params := match.Must(match.Alt(noParams, match.Must(match.List(open, token(name, true), token(literal(","), true), closing))))
	define := build(all(
		anyOf(literal("func")),
		anyOf(match.Must(match.While("blank", isBlank, 1))),
		anyOf(token(name, false)),
		anyOf(params),
		anyOf(x),
	), func(v []any) Stmt {
		return funcDef{v[2].(string), v[3].([]string), v[4].(expr)}
	})

	compute := match.Must(match.Map(x, func(x expr) Stmt { return exprStmt{x} }))
	body := match.Must(match.Alt(define, assign, compute))
	end := match.Must(match.Label("end of statement", match.Must(match.Alt(
		literal(";"), literal("\n"), literal("\r\n"), match.End[string](),
	))))

	return match.Must(match.First(
		match.Must(match.Discard[Stmt](match.Whitespace())),
		match.Must(match.Optional(body)),
		match.Must(match.Discard[Stmt](end)),
	))
})

// Statement returns matcher accepting a single calculator statement terminated by ";", a line break, or end of input:
//
//	<expression>
//	<name> = <expression>
//	func <name> (<param>, ...) <expression>
//
// Expressions contain numbers, variable names, function calls, parentheses,
// binary operators + - * / (left-associative) and ^ (right-associative), and unary minus
// at the start of an expression or an exponent.
// A line break is whitespace after an operator or inside parentheses, so such expressions may span lines.
// The value is absent for empty statements.
func Statement() match.Matcher[Stmt] {
	return statement()
}

// Calculator executes statements and keeps variables and functions between calls.
type Calculator struct {
	root *scope
}

// NewCalculator creates calculator with no variables and functions defined.
func NewCalculator() *Calculator {
	return &Calculator{newScope(nil)}
}

// Exec executes parsed statement and returns its result.
// The result of a function definition is 0.
func (c *Calculator) Exec(s Stmt) (float64, error) {
	return s.exec(c.root)
}

// Eval parses all statements in text and executes them in order.
// Nothing is executed if text contains a syntax error.
// Returns results of executed statements, execution stops at the first error.
func (c *Calculator) Eval(text string) ([]float64, error) {
	d := feed.NewDecoder(stream.New("input"), Statement())
	e := d.Write(text)
	if e == nil {
		e = d.Close()
	}
	if e != nil {
		return nil, e
	}

	var results []float64
	for {
		s, ok := d.Next()
		if !ok {
			return results, nil
		}
		r, e := c.Exec(s)
		if e != nil {
			return results, e
		}
		results = append(results, r)
	}
}

// Var returns variable value.
func (c *Calculator) Var(name string) (float64, bool) {
	v, found := c.root.vars[name]
	return v, found
}
