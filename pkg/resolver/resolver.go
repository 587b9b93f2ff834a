// Package resolver rewrites Slack's inline mention markup into display
// names using directories built once per extraction run.
package resolver

import (
	"regexp"
	"strings"
)

var (
	// mentionPattern matches <@USER>, <#CHANNEL> and <!subteam^GROUP> tokens.
	mentionPattern = regexp.MustCompile(`<([@#!])(U[A-Z0-9]+|C[A-Z0-9]+|subteam\^S[0-9A-Z]+)>`)

	// linkPattern matches <http://...> and <https://...> hyperlink tags.
	linkPattern = regexp.MustCompile(`<https?:[^>]*>`)

	// miscPattern matches the remaining <!...> special tags (<!here>,
	// <!channel>, date formatting, ...) which carry no substantive text.
	miscPattern = regexp.MustCompile(`<![^>]*>`)

	// controlPattern matches control characters that sometimes leak into
	// exported message text. Tabs and newlines are left for the final
	// whitespace collapse.
	controlPattern = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

	spacePattern = regexp.MustCompile(`\s+`)
)

// Directories are the per-run ID-to-name lookup tables. They are built once
// before extraction starts and treated as read-only afterward.
type Directories struct {
	Users      map[string]string
	Channels   map[string]string
	Usergroups map[string]string
}

// UserName resolves a user ID to its display name, passing the ID through
// unchanged on a miss so resolution never fails.
func (d Directories) UserName(id string) string {
	return lookup(d.Users, id)
}

// Resolve rewrites every mention token in text to its display name.
// Unresolvable IDs keep their sigil and pass through as-is, so the result
// is well-formed even with an empty or stale directory. Resolving text
// that contains no tokens is a no-op.
func (d Directories) Resolve(text string) string {
	return mentionPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := mentionPattern.FindStringSubmatch(token)
		switch m[1] {
		case "@":
			return "@" + lookup(d.Users, m[2])
		case "#":
			return "#" + lookup(d.Channels, m[2])
		case "!":
			id := strings.TrimSpace(m[2][strings.Index(m[2], "^")+1:])
			return "@" + lookup(d.Usergroups, id)
		}
		return token
	})
}

// Clean normalizes raw message text for output. The order matters: control
// characters and hyperlink tags are stripped before mention resolution so
// tokens embedded in links never get substituted, and whitespace is
// collapsed last.
func (d Directories) Clean(text string) string {
	text = controlPattern.ReplaceAllString(text, " ")
	text = linkPattern.ReplaceAllString(text, " ")
	text = d.Resolve(text)
	text = miscPattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

func lookup(dir map[string]string, id string) string {
	if name, ok := dir[id]; ok && name != "" {
		return name
	}
	return id
}
