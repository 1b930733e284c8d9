// Package seed holds the default catalogue and message templates.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

//go:embed defaults.toml
var defaultsTOML string

// Product is a catalogue entry as written in the defaults file.
type Product struct {
	Name      string          `toml:"name"`
	Price     decimal.Decimal `toml:"price"`
	Emoji     string          `toml:"emoji"`
	SortOrder int             `toml:"sort_order"`
}

// Defaults is the parsed defaults file.
type Defaults struct {
	Products  []Product                   `toml:"products"`
	Templates map[domain.EventType]string `toml:"templates"`
}

// Load parses the embedded defaults.
func Load() (*Defaults, error) {
	return Parse(defaultsTOML)
}

// Parse decodes a defaults document and checks that every event has a template
// that renders.
func Parse(doc string) (*Defaults, error) {
	var d Defaults
	if _, err := toml.Decode(doc, &d); err != nil {
		return nil, fmt.Errorf("failed to decode seed defaults: %w", err)
	}
	for _, p := range d.Products {
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("seed product %q: price must be positive", p.Name)
		}
	}
	for _, event := range domain.AllEventTypes {
		text, ok := d.Templates[event]
		if !ok {
			return nil, fmt.Errorf("seed defaults: no template for %s", event)
		}
		if err := (domain.MessageTemplate{EventType: event, Template: text}).CheckSyntax(); err != nil {
			return nil, fmt.Errorf("seed template %s: %w", event, err)
		}
	}
	return &d, nil
}
