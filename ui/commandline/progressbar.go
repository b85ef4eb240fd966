// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/namedtensors/ui/notebooks"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
)

// StatFn is any function that will give extra values to display along the progress bar.
// It is called at each time the progress bar is updated, and it should return a name and the current value.
type StatFn func() (name, value string)

// RefreshPeriod is the minimum time between terminal updates.
var RefreshPeriod = time.Millisecond * 200

// ProgressbarStyle to use. Defaults to the ASCII version.
// Consider "progressbar.ThemeUnicode" for a prettier version.
// But it requires some of the graphical symbols to be supported.
var ProgressbarStyle = progressbar.ThemeASCII

var (
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	tableBorderColor  = "#705090"
)

// ProgressBar displays the progress of a fixed number of steps (e.g. repeated evaluations of a
// function), along with a table of statistics in the command-line.
//
// In a notebook the statistics table is omitted, since the cursor can't be moved back.
type ProgressBar struct {
	numSteps, stepsDone, pending int
	bar                          *progressbar.ProgressBar
	out                          io.Writer
	suffix                       string
	inNotebook                   bool
	lastRefresh                  time.Time

	// lipgloss-based rich display for the command-line.
	termenv       *termenv.Output
	statsStyle    lipgloss.Style
	statsTable    *lgtable.Table
	isFirstOutput bool
	statFns       []StatFn
}

// NewProgressBar creates a progress bar for numSteps steps, each counted as one unit (e.g. "runs").
// The stats functions are called at each refresh, and their results displayed in a table above the bar.
func NewProgressBar(numSteps int, unit string, stats ...StatFn) *ProgressBar {
	inNotebook := notebooks.IsNotebook()
	var output *termenv.Output
	if !inNotebook {
		output = termenv.NewOutput(os.Stdout)
	}
	return newProgressBar(os.Stdout, output, numSteps, unit, stats...)
}

// newProgressBar writes to out. If output is nil the terminal features are not used.
func newProgressBar(out io.Writer, output *termenv.Output, numSteps int, unit string, stats ...StatFn) *ProgressBar {
	pBar := &ProgressBar{
		numSteps:   numSteps,
		out:        out,
		inNotebook: output == nil,
		termenv:    output,
		statFns:    stats,
	}
	if !pBar.inNotebook {
		pBar.isFirstOutput = true
		pBar.suffix = "\033[J"
		pBar.statsStyle = lipgloss.NewStyle().PaddingLeft(8)
		pBar.statsTable = lgtable.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if col == 0 {
					return rightAlignedStyle
				}
				return normalStyle
			})
	} else {
		// Erase to an end-of-line escape sequence ("\033[J") not supported in Jupyter notebooks:
		pBar.suffix = "        "
	}
	pBar.bar = progressbar.NewOptions(numSteps,
		progressbar.OptionSetDescription("      "),
		progressbar.OptionUseANSICodes(!pBar.inNotebook),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionSetTheme(ProgressbarStyle),
		progressbar.OptionSetWriter(pBar), // Required to work with Jupyter notebook.
	)
	return pBar
}

// Write implements io.Writer, and appends the current suffix to each line. It is meant to be used as the
// writer for the enclosed progressbar.ProgressBar, so the bar and its suffix are written in the same
// write operation; otherwise Jupyter Notebook may display things in different lines.
func (pBar *ProgressBar) Write(data []byte) (n int, err error) {
	n, err = pBar.out.Write(data)
	if err != nil {
		return n, err
	}
	_, err = pBar.out.Write([]byte(pBar.suffix))
	if err != nil {
		return 0, err
	}
	return
}

// Add amount steps to the progress. The display is refreshed at most once every RefreshPeriod,
// and when the last step is reached.
func (pBar *ProgressBar) Add(amount int) {
	pBar.pending += amount
	if time.Since(pBar.lastRefresh) < RefreshPeriod && pBar.stepsDone+pBar.pending < pBar.numSteps {
		return
	}
	pBar.refresh()
}

func (pBar *ProgressBar) refresh() {
	amount := pBar.pending
	if amount <= 0 {
		return
	}
	pBar.pending = 0
	pBar.stepsDone += amount
	pBar.lastRefresh = time.Now()
	if pBar.inNotebook || len(pBar.statFns) == 0 {
		_ = pBar.bar.Add(amount) // Triggers print, see [ProgressBar.Write].
		return
	}

	pBar.statsTable.Data(lgtable.NewStringData())
	pBar.statsTable.Row("Steps", pBar.stepsLabel())
	for _, statFn := range pBar.statFns {
		name, value := statFn()
		pBar.statsTable.Row(name, value)
	}

	// Clear the previous lines that will be overwritten: the table rows, its borders and the bar.
	pBar.termenv.HideCursor()
	if !pBar.isFirstOutput {
		pBar.termenv.CursorPrevLine(1 + len(pBar.statFns) + 2 + 1)
	}
	pBar.isFirstOutput = false
	_, _ = fmt.Fprintln(pBar.out, pBar.statsStyle.Render(pBar.statsTable.String()))
	_ = pBar.bar.Add(amount) // Prints progress bar line.
	_, _ = fmt.Fprintln(pBar.out)
	pBar.termenv.ShowCursor()
}

// Done flushes pending updates and finishes the display.
func (pBar *ProgressBar) Done() {
	pBar.refresh()
	if pBar.termenv != nil {
		pBar.termenv.ShowCursor()
	}
	if pBar.inNotebook || len(pBar.statFns) == 0 {
		_, _ = fmt.Fprintln(pBar.out)
	}
}

// stepsLabel returns the steps done out of the total, with thousands separators.
func (pBar *ProgressBar) stepsLabel() string {
	return fmt.Sprintf("%s of %s", humanize.Comma(int64(pBar.stepsDone)), humanize.Comma(int64(pBar.numSteps)))
}
