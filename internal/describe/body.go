package describe

import "strings"

// The original body is fenced by these comments whenever a template embeds
// it, so a later run can recover it instead of nesting renderings.
const (
	bodyOpen  = "<!-- prmeta:body -->"
	bodyClose = "<!-- /prmeta:body -->"
)

// SourceBody returns the author's body inside a previously rendered
// description, or body itself when it was never rendered.
func SourceBody(body string) string {
	i := strings.Index(body, bodyOpen)
	j := strings.LastIndex(body, bodyClose)
	if i < 0 || j < i+len(bodyOpen) {
		return body
	}
	inner := body[i+len(bodyOpen) : j]
	inner = strings.TrimPrefix(inner, "\n")
	return strings.TrimSuffix(inner, "\n")
}

func embedBody(body string) string {
	return bodyOpen + "\n" + body + "\n" + bodyClose
}
