package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	Green     = lipgloss.Color("#22C55E")
	Amber     = lipgloss.Color("#F59E0B")
	Blue      = lipgloss.Color("#3B82F6")
	Red       = lipgloss.Color("#EF4444")
	LightGray = lipgloss.Color("#9CA3AF")
)

var (
	out      io.Writer = os.Stdout
	renderer           = lipgloss.NewRenderer(os.Stdout)
)

// SetOutput redirects all console lines to w. Styling follows the terminal
// capabilities of w, so plain writers get unstyled text.
func SetOutput(w io.Writer) {
	out = w
	renderer = lipgloss.NewRenderer(w)
}

// Output returns the writer console lines currently go to.
func Output() io.Writer {
	return out
}

func printStyled(style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, style.Render(strings.TrimRight(msg, "\n")))
}

func Info(format string, args ...any) {
	printStyled(renderer.NewStyle().Foreground(Blue), format, args...)
}

func Success(format string, args ...any) {
	printStyled(renderer.NewStyle().Foreground(Green).Bold(true), format, args...)
}

func Warn(format string, args ...any) {
	printStyled(renderer.NewStyle().Foreground(Amber).Bold(true), format, args...)
}

func Error(format string, args ...any) {
	printStyled(renderer.NewStyle().Foreground(Red).Bold(true), format, args...)
}

func Debug(format string, args ...any) {
	printStyled(renderer.NewStyle().Foreground(LightGray), format, args...)
}

// Basic prints an unstyled line.
func Basic(format string, args ...any) {
	fmt.Fprintf(out, format+"\n", args...)
}

func Table(headers []string, rows [][]string) {
	headerStyle := renderer.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := renderer.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(renderer.NewStyle().Foreground(LightGray)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Fprintln(out, t.Render())
}

// StartSpinner shows msg next to a spinner while a slow call runs and returns
// the function that clears it. Only terminals get a spinner.
func StartSpinner(msg string) (stop func()) {
	f, ok := out.(*os.File)
	if !ok {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}
