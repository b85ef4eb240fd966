// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package latex

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/tensorize"
	"github.com/gomlx/namedtensors/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrUnsupported is wrapped by errors returned by Function for expressions it can't render.
var ErrUnsupported = errors.New("unsupported expression")

// FuncDecl declares a function to be rendered: its template and its body, a single Go expression
// on the parameters, e.g. "Dot(seq, Softmax(seq, Dot(key, Q, K)/math.Sqrt(math.Abs(key))), V)".
//
// Calls to the reductions of the tensorize package (Sum, Dot, Softmax, Max, Mean) take the axis as
// their first argument. The package qualifier of a call ("tensorize.") is dropped, except for the
// math package.
type FuncDecl struct {
	Template tensorize.Template
	Body     string
}

// Function renders the declaration as a signature line followed by the definition, e.g.:
//
//	\mathrm{Att}:\mathbb{R}^{\mathsf{key}}\times ... \rightarrow\mathbb{R}^{\mathsf{val}}\\
//	\mathrm{Att}\left(Q, K, V\right) = ...
//
// Identifiers naming an axis of the template are rendered as axis names, and Greek letter names
// (alpha, beta, ...) as their symbols.
func Function(decl FuncDecl) (string, error) {
	expr, err := parser.ParseExpr(decl.Body)
	if err != nil {
		return "", errors.Wrapf(err, "latex: failed to parse body of %q", decl.Template.Name)
	}
	r := &renderer{axisNames: sets.Make[string]()}
	for _, p := range decl.Template.Params {
		for _, k := range p.Axes {
			r.axisNames.Insert(k.Name())
		}
	}
	for _, k := range decl.Template.Returns {
		r.axisNames.Insert(k.Name())
	}
	body, err := r.visit(expr)
	if err != nil {
		return "", errors.WithMessagef(err, "latex: rendering %q", decl.Template.Name)
	}
	klog.V(2).Infof("latex: rendered %s", decl.Template.Signature())

	name := `\mathrm{` + decl.Template.Name + `}`
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(":")
	var paramTypes, paramNames []string
	for _, p := range decl.Template.Params {
		paramNames = append(paramNames, r.identifier(p.Name))
		if !p.Untyped {
			paramTypes = append(paramTypes, Type(p.Axes...))
		}
	}
	sb.WriteString(strings.Join(paramTypes, ` \times `))
	sb.WriteString(` \rightarrow `)
	sb.WriteString(Type(decl.Template.Returns...))
	sb.WriteString(`\\`)
	sb.WriteString("\n")
	sb.WriteString(name)
	sb.WriteString(`\left(`)
	sb.WriteString(strings.Join(paramNames, ", "))
	sb.WriteString(`\right) = `)
	sb.WriteString(body)
	return sb.String(), nil
}

// Operator priorities: higher binds tighter.
const (
	priorityAdd = iota + 1
	priorityMul
	priorityUnary
	priorityAtom
)

var binaryPriority = map[token.Token]int{
	token.ADD: priorityAdd,
	token.SUB: priorityAdd,
	token.MUL: priorityMul,
	token.QUO: priorityMul,
}

var greekLetters = sets.MakeWith(
	"alpha", "beta", "gamma", "delta", "epsilon", "varepsilon", "zeta", "eta", "theta", "vartheta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "pi", "varpi", "rho", "varrho", "sigma", "varsigma",
	"tau", "upsilon", "phi", "varphi", "chi", "psi", "omega",
	"Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma", "Upsilon", "Phi", "Psi", "Omega",
)

// contractions take an axis as first argument, rendered under the operator.
type contraction struct {
	numArgs int
	render  func(axis string, args []string) string
}

var contractions = map[string]contraction{
	"Sum": {2, func(axis string, args []string) string {
		return `\sum\limits_{` + axis + `}` + args[0]
	}},
	"Dot": {3, func(axis string, args []string) string {
		return args[0] + ` \mathbin{\mathop{\boldsymbol\cdot}\limits_{` + axis + `}} ` + args[1]
	}},
	"Softmax": {2, namedOperator("softmax")},
	"Max":     {2, namedOperator("max")},
	"Mean":    {2, namedOperator("mean")},
}

func namedOperator(name string) func(axis string, args []string) string {
	return func(axis string, args []string) string {
		return `\mathop{\mathrm{` + name + `}}\limits_{` + axis + `}\left(` + args[0] + `\right)`
	}
}

// builtinCallees maps math functions to their LaTeX rendering around the argument.
var builtinCallees = map[string][2]string{
	"math.Abs":   {`\left|`, `\right|`},
	"math.Acos":  {`\arccos\left(`, `\right)`},
	"math.Asin":  {`\arcsin\left(`, `\right)`},
	"math.Atan":  {`\arctan\left(`, `\right)`},
	"math.Cos":   {`\cos\left(`, `\right)`},
	"math.Cosh":  {`\cosh\left(`, `\right)`},
	"math.Sin":   {`\sin\left(`, `\right)`},
	"math.Sinh":  {`\sinh\left(`, `\right)`},
	"math.Tan":   {`\tan\left(`, `\right)`},
	"math.Tanh":  {`\tanh\left(`, `\right)`},
	"math.Exp":   {`\exp\left(`, `\right)`},
	"math.Log":   {`\log\left(`, `\right)`},
	"math.Log2":  {`\log_2\left(`, `\right)`},
	"math.Log10": {`\log_{10}\left(`, `\right)`},
	"math.Sqrt":  {`\sqrt{`, `}`},
	"math.Floor": {`\left\lfloor`, `\right\rfloor`},
	"math.Ceil":  {`\left\lceil`, `\right\rceil`},
	"math.Gamma": {`\Gamma\left(`, `\right)`},
	"Exp":        {`\exp\left(`, `\right)`},
}

type renderer struct {
	axisNames sets.Set[string]
}

func (r *renderer) identifier(name string) string {
	switch {
	case r.axisNames.Has(name):
		return Name(name)
	case greekLetters.Has(name):
		return `\` + name
	default:
		return name
	}
}

// priority of the rendered expression, used to decide on parenthesization.
func priority(expr ast.Expr) int {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		if e.Op == token.QUO {
			// \frac delimits its own operands.
			return priorityAtom
		}
		if p, found := binaryPriority[e.Op]; found {
			return p
		}
	case *ast.UnaryExpr:
		return priorityUnary
	}
	return priorityAtom
}

func (r *renderer) visit(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return r.identifier(e.Name), nil

	case *ast.BasicLit:
		if e.Kind != token.INT && e.Kind != token.FLOAT {
			return "", errors.Wrapf(ErrUnsupported, "literal %s", e.Value)
		}
		return e.Value, nil

	case *ast.ParenExpr:
		inner, err := r.visit(e.X)
		if err != nil {
			return "", err
		}
		if isFraction(e.X) {
			return inner, nil
		}
		return `\left(` + inner + `\right)`, nil

	case *ast.UnaryExpr:
		if e.Op != token.SUB && e.Op != token.ADD {
			return "", errors.Wrapf(ErrUnsupported, "unary operator %s", e.Op)
		}
		operand, err := r.operand(e.X, priorityUnary, false)
		if err != nil {
			return "", err
		}
		return e.Op.String() + operand, nil

	case *ast.BinaryExpr:
		return r.visitBinary(e)

	case *ast.CallExpr:
		return r.visitCall(e)
	}
	return "", errors.Wrapf(ErrUnsupported, "%T", expr)
}

// operand renders a sub-expression of an operator with the given priority, parenthesized if it
// binds less tightly. strict also parenthesizes operands of equal priority (right side of "-").
func (r *renderer) operand(expr ast.Expr, parent int, strict bool) (string, error) {
	s, err := r.visit(expr)
	if err != nil {
		return "", err
	}
	p := priority(expr)
	if p < parent || (strict && p == parent) {
		return `\left(` + s + `\right)`, nil
	}
	return s, nil
}

// isFraction reports whether expr renders as a \frac, which needs no parentheses except as a base.
func isFraction(expr ast.Expr) bool {
	e, ok := ast.Unparen(expr).(*ast.BinaryExpr)
	return ok && e.Op == token.QUO
}

func (r *renderer) visitBinary(e *ast.BinaryExpr) (string, error) {
	p, found := binaryPriority[e.Op]
	if !found {
		return "", errors.Wrapf(ErrUnsupported, "binary operator %s", e.Op)
	}
	if e.Op == token.QUO {
		num, err := r.visit(ast.Unparen(e.X))
		if err != nil {
			return "", err
		}
		den, err := r.visit(ast.Unparen(e.Y))
		if err != nil {
			return "", err
		}
		return `\frac{` + num + `}{` + den + `}`, nil
	}
	left, err := r.operand(e.X, p, false)
	if err != nil {
		return "", err
	}
	right, err := r.operand(e.Y, p, e.Op == token.SUB)
	if err != nil {
		return "", err
	}
	op := e.Op.String()
	if e.Op == token.MUL {
		op = `\cdot`
	}
	return left + " " + op + " " + right, nil
}

// callee returns the qualified name of the function called, e.g. "math.Exp" or "Sum".
// Qualifiers other than math are dropped.
func callee(fn ast.Expr) (string, error) {
	switch f := fn.(type) {
	case *ast.Ident:
		return f.Name, nil
	case *ast.SelectorExpr:
		pkg, ok := f.X.(*ast.Ident)
		if !ok {
			return "", errors.Wrapf(ErrUnsupported, "callee %T", f.X)
		}
		if pkg.Name == "math" {
			return "math." + f.Sel.Name, nil
		}
		return f.Sel.Name, nil
	}
	return "", errors.Wrapf(ErrUnsupported, "callee %T", fn)
}

func (r *renderer) visitCall(e *ast.CallExpr) (string, error) {
	name, err := callee(e.Fun)
	if err != nil {
		return "", err
	}
	args := make([]string, len(e.Args))
	for ii, arg := range e.Args {
		args[ii], err = r.visit(arg)
		if err != nil {
			return "", err
		}
	}

	if c, found := contractions[name]; found {
		if len(args) != c.numArgs {
			return "", errors.Wrapf(ErrUnsupported, "%s takes %d arguments, got %d", name, c.numArgs, len(args))
		}
		axis, ok := e.Args[0].(*ast.Ident)
		if !ok {
			return "", errors.Wrapf(ErrUnsupported, "%s axis must be an axis name, got %T", name, e.Args[0])
		}
		return c.render(Name(axis.Name), args[1:]), nil
	}

	if name == "math.Pow" {
		if len(args) != 2 {
			return "", errors.Wrapf(ErrUnsupported, "math.Pow takes 2 arguments, got %d", len(args))
		}
		base, err := r.operand(e.Args[0], priorityAtom, isFraction(e.Args[0]))
		if err != nil {
			return "", err
		}
		return base + `^{` + args[1] + `}`, nil
	}

	if wrap, found := builtinCallees[name]; found {
		if len(args) != 1 {
			return "", errors.Wrapf(ErrUnsupported, "%s takes 1 argument, got %d", name, len(args))
		}
		return wrap[0] + args[0] + wrap[1], nil
	}

	return fmt.Sprintf(`\mathrm{%s}\left(%s\right)`, strings.TrimPrefix(name, "math."),
		strings.Join(args, ", ")), nil
}

// AttentionDecl is the declaration of tensorize.Attention, for rendering.
func AttentionDecl(key, seq, val axes.Kind) FuncDecl {
	return FuncDecl{
		Template: tensorize.AttentionTemplate(key, seq, val),
		Body: fmt.Sprintf("Dot(%s, Softmax(%s, Dot(%s, Q, K) / math.Sqrt(math.Abs(%s))), V)",
			seq.Name(), seq.Name(), key.Name(), key.Name()),
	}
}
