package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
)

// MessageTemplate is an admin-editable notification text keyed by event type.
// Placeholders are written as {name}; {{ and }} produce literal braces.
type MessageTemplate struct {
	TemplateID string    `json:"templateID"`
	EventType  EventType `json:"eventType"`
	Template   string    `json:"template"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Render substitutes vars into the template. A placeholder without a value is an error.
func (t MessageTemplate) Render(vars map[string]string) (string, error) {
	return renderPlaceholders(t.Template, func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	})
}

// CheckSyntax renders the template with every placeholder resolving to itself,
// so only structural problems such as unbalanced braces are reported.
func (t MessageTemplate) CheckSyntax() error {
	if strings.TrimSpace(t.Template) == "" {
		return fmt.Errorf("%w: template text is required", apperrors.ErrValidation)
	}
	_, err := renderPlaceholders(t.Template, func(name string) (string, bool) { return name, true })
	return err
}

func renderPlaceholders(tmpl string, lookup func(string) (string, bool)) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed placeholder at offset %d", apperrors.ErrValidation, i)
			}
			name := strings.TrimSpace(tmpl[i+1 : i+1+end])
			if name == "" || strings.ContainsAny(name, "{") {
				return "", fmt.Errorf("%w: invalid placeholder at offset %d", apperrors.ErrValidation, i)
			}
			v, ok := lookup(name)
			if !ok {
				return "", fmt.Errorf("%w: missing value for placeholder %q", apperrors.ErrValidation, name)
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", apperrors.ErrValidation, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
