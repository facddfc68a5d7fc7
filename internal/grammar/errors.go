package grammar

import (
	"fmt"
	"strings"
)

// SchemaError reports a grammar description that cannot be turned into a
// command tree. It is fatal: no partial tree is ever returned alongside it.
type SchemaError struct {
	// Source names the document, usually a file path.
	Source string
	// Location points at the offending value, either a JSON pointer like
	// /subcommands/1/options/0/arguments or a tree path like
	// e4s-cl launch --profile.
	Location string
	// Line is the 1-based line of the offending value, 0 if unknown.
	Line int
	Err  error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("invalid grammar")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Location != "" {
		fmt.Fprintf(&b, " at %s", e.Location)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
