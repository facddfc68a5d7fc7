// Package resolve finds the grammar node governing the word being completed by
// replaying the typed words against the command tree from left to right.
package resolve

import (
	"github.com/e4s-project/e4s-cl-completion/internal/grammar"
	"github.com/samber/lo"
)

// State is the kind of grammar node a Context points at.
type State int

const (
	// AtCommand: the in-progress word is a new token of the innermost command.
	AtCommand State = iota
	// AwaitingOptionValue: the in-progress word is a value of a pending option.
	AwaitingOptionValue
)

func (s State) String() string {
	switch s {
	case AtCommand:
		return "AtCommand"
	case AwaitingOptionValue:
		return "AwaitingOptionValue"
	default:
		return "State(?)"
	}
}

// Context is the outcome of a resolution.
type Context struct {
	State State
	// Path holds the commands descended into, root first. Never empty.
	Path []*grammar.Command
	// Positionals counts the words of the innermost command taken as
	// positionals so far.
	Positionals int
	// Option is the pending option; non-nil exactly when State is
	// AwaitingOptionValue.
	Option *grammar.Option
	// Prefix is the in-progress word.
	Prefix string
}

// Command returns the innermost command.
func (c Context) Command() *grammar.Command {
	return c.Path[len(c.Path)-1]
}

// PathNames returns the names along Path, for logging.
func (c Context) PathNames() []string {
	return lo.Map(c.Path, func(cmd *grammar.Command, _ int) string {
		return cmd.Name
	})
}

// Resolve walks words (program name first, in-progress word last) against the
// tree rooted at root. It never fails: words that are neither a subcommand nor
// an option of the current command count as positionals.
func Resolve(root *grammar.Command, words []string) Context {
	ctx := Context{
		State: AtCommand,
		Path:  []*grammar.Command{root},
	}
	if len(words) == 0 {
		return ctx
	}

	last := len(words) - 1
	ctx.Prefix = words[last]

	for i := 1; i < last; i++ {
		word := words[i]
		if word == "" {
			continue
		}

		cmd := ctx.Command()

		if sub, ok := cmd.FindSubcommand(word); ok {
			ctx.Path = append(ctx.Path, sub)
			ctx.Positionals = 0
			continue
		}

		if opt, ok := cmd.FindOption(word); ok {
			next := consume(cmd, opt, words, i+1)
			if next > last {
				// The option's value slot reaches the in-progress word.
				ctx.State = AwaitingOptionValue
				ctx.Option = opt
				return ctx
			}
			i = next - 1
			continue
		}

		ctx.Positionals++
	}

	return ctx
}

// consume returns the index of the first word after the values taken by opt,
// whose first candidate value is at start. The in-progress word counts as a
// value candidate, so a result past the last index means the slot is still
// open.
func consume(cmd *grammar.Command, opt *grammar.Option, words []string, start int) int {
	switch opt.Arguments.Kind {
	case grammar.ArgsFixed:
		return start + opt.Arguments.Count
	case grammar.ArgsAtMostOne:
		if start < len(words) && !cmd.IsOption(words[start]) {
			return start + 1
		}
		return start
	default:
		next := start
		for next < len(words) && !cmd.IsOption(words[next]) {
			next++
		}
		return next
	}
}
