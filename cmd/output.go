package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/cryol/pyapi-zabbix/pkg/redact"
	"github.com/tidwall/pretty"
)

var (
	red  = lipgloss.AdaptiveColor{Light: "#FE5F86", Dark: "#FE5F86"}
	gray = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#BDBDBD"}

	errorLabelStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(gray)
)

// printJSON writes raw indented, ending with a newline.
func printJSON(w io.Writer, raw json.RawMessage) error {
	_, err := w.Write(pretty.PrettyOptions(raw, &pretty.Options{
		Width:    80,
		Indent:   "  ",
		SortKeys: true,
	}))

	return err
}

// renderError prints err with styling. The text is redacted again since
// not every error comes from the client packages.
func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorLabelStyle.Render("error:"), errorTextStyle.Render(redact.Redact(err.Error())))
}
