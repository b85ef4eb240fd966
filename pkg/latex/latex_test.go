// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package latex

import (
	"strings"
	"testing"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/core/tensorize"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensor(t *testing.T) {
	kinds := axes.NewRegistry().Setup("x", "y", "z")
	x, y, z := kinds[0], kinds[1], kinds[2]

	assert.Equal(t, `$5\in\mathbb{R}$`, Tensor(tensors.FromScalar(5)))

	vector := tensors.FromFunc(shapes.Make(y.Of(3)), func(indices []axes.Index) float64 {
		return float64(indices[0].Value())
	})
	assert.Equal(t,
		`$$\begin{array}{c}\mathbb{R}^{\mathsf{y}}\\ \mathsf{y} \\ \begin{bmatrix}0 & 1 & 2\end{bmatrix}\end{array}$$`,
		Tensor(vector))

	matrix := tensors.FromFunc(shapes.Make(x.Of(2), y.Of(2)), func(indices []axes.Index) float64 {
		return float64(2*indices[0].Value() + indices[1].Value() + 1)
	})
	assert.Equal(t,
		`$$\mathsf{x}\begin{array}{c}\mathbb{R}^{\mathsf{x}\times\mathsf{y}}\\ \mathsf{y} \\ `+
			`\begin{bmatrix}1 & 2\\3 & 4 \end{bmatrix}\end{array}$$`,
		Tensor(matrix))

	cube := tensors.Zeros(shapes.Make(z.Of(2), x.Of(2), y.Of(2)))
	assert.Equal(t, `$$\mathbb{R}^{\mathsf{x}\times\mathsf{y}\times\mathsf{z}}$$`, Tensor(cube))
}

func TestAttentionFunction(t *testing.T) {
	kinds := axes.NewRegistry().Setup("key", "seq", "val")
	got, err := Function(AttentionDecl(kinds[0], kinds[1], kinds[2]))
	require.NoError(t, err)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`\mathrm{Att}:\mathbb{R}^{\mathsf{key}} \times \mathbb{R}^{\mathsf{seq}\times\mathsf{key}} \times `+
			`\mathbb{R}^{\mathsf{seq}\times\mathsf{val}} \rightarrow \mathbb{R}^{\mathsf{val}}\\`,
		lines[0])
	dotKey := `Q \mathbin{\mathop{\boldsymbol\cdot}\limits_{\mathsf{key}}} K`
	scaled := `\frac{` + dotKey + `}{\sqrt{\left|\mathsf{key}\right|}}`
	softmax := `\mathop{\mathrm{softmax}}\limits_{\mathsf{seq}}\left(` + scaled + `\right)`
	assert.Equal(t,
		`\mathrm{Att}\left(Q, K, V\right) = `+softmax+` \mathbin{\mathop{\boldsymbol\cdot}\limits_{\mathsf{seq}}} V`,
		lines[1])
}

func TestFunctionExpressions(t *testing.T) {
	kinds := axes.NewRegistry().Setup("seq")
	seq := kinds[0]
	tmpl := tensorize.Template{
		Name: "f",
		Params: []tensorize.Param{
			{Name: "X", Axes: []axes.Kind{seq}},
			{Name: "alpha", Untyped: true},
		},
	}
	render := func(body string) string {
		got, err := Function(FuncDecl{Template: tmpl, Body: body})
		require.NoError(t, err, "rendering %q", body)
		return strings.SplitN(got, " = ", 2)[1]
	}

	got, err := Function(FuncDecl{Template: tmpl, Body: "X"})
	require.NoError(t, err)
	assert.Equal(t, `\mathrm{f}:\mathbb{R}^{\mathsf{seq}} \rightarrow \mathbb{R}\\`+"\n"+
		`\mathrm{f}\left(X, \alpha\right) = X`, got)

	assert.Equal(t, `\alpha \cdot X - \left(X - 2\right)`, render("alpha * X - (X - 2)"))
	assert.Equal(t, `\frac{X + 1}{\alpha}`, render("(X + 1) / alpha"))
	assert.Equal(t, `\left(X + 1\right)^{2}`, render("math.Pow(X + 1, 2)"))
	assert.Equal(t, `-\frac{X}{\alpha}`, render("-(X / alpha)"))
	assert.Equal(t, `\alpha \cdot \frac{X}{2} - \frac{1}{X}`, render("alpha * (X / 2) - 1 / X"))
	assert.Equal(t, `\left(\frac{X}{2}\right)^{2}`, render("math.Pow(X / 2, 2)"))
	assert.Equal(t, `\left(\frac{X}{2}\right)^{2}`, render("math.Pow((X / 2), 2)"))
	assert.Equal(t, `-\left(X + 1\right)`, render("-(X + 1)"))
	assert.Equal(t, `\sum\limits_{\mathsf{seq}}\exp\left(X\right)`, render("Sum(seq, math.Exp(X))"))
	assert.Equal(t, `\mathop{\mathrm{max}}\limits_{\mathsf{seq}}\left(X\right)`, render("tensorize.Max(seq, X)"))
	assert.Equal(t, `\mathrm{relu}\left(X, 0.5\right)`, render("relu(X, 0.5)"))
	assert.Equal(t, `\mathrm{Hypot}\left(X, \alpha\right)`, render("math.Hypot(X, alpha)"))
	assert.Equal(t, `\log_2\left(\left|X\right|\right)`, render("math.Log2(math.Abs(X))"))
}

func TestFunctionErrors(t *testing.T) {
	tmpl := tensorize.Template{Name: "f", Params: []tensorize.Param{{Name: "X"}}}
	for _, body := range []string{"X[0]", "Sum(X)", "X % 2", `"text"`, "!X", "Sum(X+1, X)", "f()(X)"} {
		_, err := Function(FuncDecl{Template: tmpl, Body: body})
		require.Error(t, err, "body %q", body)
		assert.Truef(t, errors.Is(err, ErrUnsupported), "body %q: got %v", body, err)
	}

	_, err := Function(FuncDecl{Template: tmpl, Body: "X +"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupported))
}
