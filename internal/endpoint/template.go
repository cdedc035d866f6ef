package endpoint

import (
	"fmt"
	"strings"
)

type placeholder struct {
	name     string
	optional bool
}

// placeholders returns the {name} and {name?} markers of a template in order.
func placeholders(template string) ([]placeholder, error) {
	var out []placeholder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return out, nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated placeholder in %q", template)
		}
		name := rest[open+1 : open+end]
		ph := placeholder{name: name}
		if strings.HasSuffix(name, "?") {
			ph.name = strings.TrimSuffix(name, "?")
			ph.optional = true
		}
		if ph.name == "" {
			return nil, fmt.Errorf("empty placeholder in %q", template)
		}
		out = append(out, ph)
		rest = rest[open+end+1:]
	}
}

// expand substitutes every placeholder with the value returned by lookup.
func expand(template string, lookup func(ph placeholder) (string, error)) (string, error) {
	phs, err := placeholders(template)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	rest := template
	for _, ph := range phs {
		marker := "{" + ph.name + "}"
		if ph.optional {
			marker = "{" + ph.name + "?}"
		}
		i := strings.Index(rest, marker)
		b.WriteString(rest[:i])

		value, err := lookup(ph)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
		rest = rest[i+len(marker):]
	}
	b.WriteString(rest)

	out := b.String()
	if !strings.HasSuffix(template, "/") {
		out = strings.TrimRight(out, "/")
	}
	return out, nil
}

func hasPlaceholder(template, name string) bool {
	return strings.Contains(template, "{"+name+"}") || strings.Contains(template, "{"+name+"?}")
}
