// Package renderer turns valued positions and ledgers into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderHoldings renders the holding report to a markdown string.
func RenderHoldings(r *HoldingReport) string {
	partials := map[string]string{
		"holding_title":  "templates/holding_title.md",
		"holding_open":   "templates/holding_open.md",
		"holding_closed": "templates/holding_closed.md",
	}
	return renderTemplate("holding", "templates/holding.md", partials, r)
}

// RenderTransactions renders a transaction log to a markdown string.
func RenderTransactions(r *TransactionLog) string {
	return renderTemplate("transactions", "templates/transactions.md", nil, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
