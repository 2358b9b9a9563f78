package report

import "strings"

// Render formats the result as the multi-line summary:
//
//	known_extentions:
//			docx
//			jpg
//
// Keys without extensions are omitted. An empty result renders as
// NoChangesMessage.
func (r *Result) Render() string {
	var b strings.Builder
	for _, key := range Keys {
		exts := r.Extensions(key)
		if len(exts) == 0 {
			continue
		}
		b.WriteString(string(key))
		b.WriteString(":\n\t\t")
		b.WriteString(strings.Join(exts, "\n\t\t"))
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return NoChangesMessage
	}
	return b.String()
}

// RenderInline formats each key on one line, e.g. "known_extentions: docx, jpg".
func (r *Result) RenderInline() string {
	lines := make([]string, 0, len(Keys))
	for _, key := range Keys {
		exts := r.Extensions(key)
		if len(exts) == 0 {
			continue
		}
		lines = append(lines, string(key)+": "+strings.Join(exts, ", "))
	}
	if len(lines) == 0 {
		return NoChangesMessage
	}
	return strings.Join(lines, "\n")
}
