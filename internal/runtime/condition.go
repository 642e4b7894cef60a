package runtime

import "strings"

// EvalCondition evaluates a simple condition like "{{var}} == 'hello'" or
// "{{var}} != 'hello'" against the context. Anything it cannot parse
// evaluates to false.
func EvalCondition(ctx interface{ Get(string) string }, condition string) bool {
	cond := strings.TrimSpace(condition)

	op := "=="
	negate := false
	if strings.Contains(cond, "!=") {
		op = "!="
		negate = true
	} else if !strings.Contains(cond, "==") {
		return false
	}

	parts := strings.SplitN(cond, op, 2)
	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])

	// The left side must be a variable in {{ }}.
	if !strings.HasPrefix(left, "{{") || !strings.HasSuffix(left, "}}") {
		return false
	}
	varName := strings.TrimSpace(left[2 : len(left)-2])
	leftVal := ctx.Get(varName)

	// Remove quotes from the right side.
	rightVal := strings.Trim(right, `"'`)

	if negate {
		return leftVal != rightVal
	}
	return leftVal == rightVal
}
