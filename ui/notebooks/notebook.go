// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package notebooks checks whether running within a notebook, and displays tensors and functions
// there as rendered LaTeX.
// It supports GoNB [1] and bash_kernel [2].
//
// [1] GoNB: https://github.com/janpfeifer/gonb
// [2] bash_kernel: https://github.com/takluyver/bash_kernel
package notebooks

import (
	"fmt"
	"io"
	"os"

	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/gomlx/namedtensors/pkg/latex"
	"github.com/janpfeifer/gonb/gonbui"
	"github.com/pkg/errors"
)

// IsNotebook returns whether running inside a Jupyter notebook.
func IsNotebook() bool {
	return IsBashKernel() || IsGoNB()
}

const bashKernelEnv = "NOTEBOOK_BASH_KERNEL_CAPABILITIES"

// IsBashKernel returns whether running in a Jupyter notebook with a bash_kernel.
func IsBashKernel() bool {
	_, found := os.LookupEnv(bashKernelEnv)
	return found
}

const goNBKernelEnv = "GONB_PIPE"

// IsGoNB returns whether running in a Jupyter notebook with a GoNB kernel.
func IsGoNB() bool {
	_, found := os.LookupEnv(goNBKernelEnv)
	return found
}

// Display the tensor: rendered as LaTeX in a GoNB notebook, or printed to stdout otherwise.
func Display(t *tensors.Tensor) {
	display(os.Stdout, gonbui.IsNotebook, t)
}

func display(w io.Writer, inGoNB bool, t *tensors.Tensor) {
	if inGoNB {
		gonbui.DisplayMarkdown(latex.Tensor(t))
		return
	}
	_, _ = fmt.Fprintln(w, t)
}

// DisplayFunction renders the function declaration: as LaTeX in a GoNB notebook, or as its
// signature followed by the LaTeX source on stdout otherwise.
func DisplayFunction(decl latex.FuncDecl) error {
	return displayFunction(os.Stdout, gonbui.IsNotebook, decl)
}

func displayFunction(w io.Writer, inGoNB bool, decl latex.FuncDecl) error {
	rendered, err := latex.Function(decl)
	if err != nil {
		return errors.WithMessage(err, "notebooks.DisplayFunction")
	}
	if inGoNB {
		gonbui.DisplayMarkdown("$$\n" + rendered + "\n$$")
		return nil
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", decl.Template.Signature(), rendered)
	return errors.Wrap(err, "notebooks.DisplayFunction")
}
