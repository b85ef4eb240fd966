// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline contains convenience UI tools to display tensors in the command line.
package commandline

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/gomlx/namedtensors/pkg/latex"
	"github.com/pkg/errors"
)

// Format in which tensors are printed.
type Format string

const (
	// FormatText uses tensors.Tensor.String.
	FormatText Format = "text"

	// FormatLatex prints the LaTeX source, see latex.Tensor.
	FormatLatex Format = "latex"

	// FormatTable draws a table, see TensorTable.
	FormatTable Format = "table"
)

// Formats lists the valid formats.
var Formats = []Format{FormatText, FormatLatex, FormatTable}

// ParseFormat returns the Format with the given name, case-insensitive.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown format %q, valid formats are %q", name, Formats)
}

// Fprint prints the tensor preceded by its title in the given format.
func Fprint(w io.Writer, format Format, title string, t *tensors.Tensor) error {
	var body string
	switch format {
	case FormatText:
		body = t.String()
	case FormatLatex:
		body = latex.Tensor(t)
	case FormatTable:
		body = TensorTable(t, tensors.StringDefaultPrecision).String()
	default:
		return errors.Errorf("unknown format %q", format)
	}
	_, err := fmt.Fprintf(w, "%s:\n%s\n\n", title, body)
	return errors.Wrapf(err, "printing %q", title)
}
