package topics

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed assistantInstr.tmpl
var assistantInstructions string

var assistantInstructionsTemplate = template.Must(template.New("assistant").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(assistantInstructions))

// SystemPrompt renders the instructions sent with every remote request.
func (f Festival) SystemPrompt() (string, error) {
	var b strings.Builder
	if err := assistantInstructionsTemplate.Execute(&b, f); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
