package literal

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape prepares s for embedding between double quotes.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape. Backslashes not followed by a backslash or a
// double quote are kept as they are.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

// Quote escapes s and wraps it in double quotes.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}
