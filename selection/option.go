package selection

import (
	"fmt"
	"slices"
	"strings"
)

// Option is the strategy replace and append use to pick their target entry.
type Option string

const (
	// None means no strategy has been chosen yet; replace and append do nothing.
	None    Option = ""
	Option1 Option = "option1"
	Option2 Option = "option2"
	Random  Option = "random"
)

// Options lists the selectable strategies.
func Options() []Option { return []Option{Option1, Option2, Random} }

// OptionNames joins the selectable option names with sep.
func OptionNames(sep string) string {
	names := make([]string, 0, 3)
	for _, o := range Options() {
		names = append(names, string(o))
	}
	return strings.Join(names, sep)
}

// ParseOption accepts the option names case-insensitively.
func ParseOption(s string) (Option, error) {
	o := Option(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Options(), o) {
		return o, nil
	}
	return None, fmt.Errorf("unknown option %q (must be one of: %s)", s, OptionNames(", "))
}

// fixedIndex is the catalogue position option1 and option2 always point at.
func (o Option) fixedIndex() (int, bool) {
	switch o {
	case Option1:
		return 0, true
	case Option2:
		return 1, true
	default:
		return 0, false
	}
}
