package runtime

import (
	"regexp"
	"strings"
)

var templateVarRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// RenderTemplate substitutes {{var}} placeholders with values from vars.
// Unknown placeholders are left untouched.
func RenderTemplate(input string, vars map[string]string) string {
	return templateVarRe.ReplaceAllStringFunc(input, func(m string) string {
		name := strings.TrimSpace(strings.Trim(m, "{}"))
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}
