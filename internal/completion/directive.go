package completion

import (
	_ "embed"
	"fmt"

	"mvdan.cc/sh/v3/syntax"
)

//go:embed complete.fmt
var directiveFormat string

// Directive renders the bash line registering handler as the completion
// command of command.
func Directive(handler, command string) (string, error) {
	quoted, err := syntax.Quote(handler, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("failed to quote completion handler %q: %w", handler, err)
	}
	return fmt.Sprintf(directiveFormat, quoted, command), nil
}
