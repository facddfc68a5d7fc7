// Package grammar defines the command tree describing the e4s-cl command line:
// commands own their subcommands, options and positionals, and options and
// positionals declare how many words they consume and where completion values
// for those words come from.
package grammar

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ArgumentKind discriminates the variants of ArgumentCount.
type ArgumentKind int

const (
	// ArgsFixed consumes exactly Count words.
	ArgsFixed ArgumentKind = iota
	// ArgsAtMostOne consumes the next word unless it is an option.
	ArgsAtMostOne
	// ArgsAtLeastOne consumes words until the next option.
	ArgsAtLeastOne
	// ArgsAny consumes words until the next option.
	ArgsAny
)

// Sentinels accepted in place of an integer argument count.
const (
	ArgsSomeToken       = "ARGS_SOME"
	ArgsAtLeastOneToken = "ARGS_ATLEASTONE"
	ArgsAtMostOneToken  = "ARGS_ATMOSTONE"
)

// Sentinels accepted as expected_type.
const (
	ProfileNameToken    = "defined_profile"
	FilesystemPathToken = "path"
)

// ArgumentCount is the arity of an option or positional. The zero value is
// Fixed(0).
type ArgumentCount struct {
	Kind  ArgumentKind
	Count int // only meaningful for ArgsFixed
}

// Fixed returns an ArgumentCount consuming exactly n words.
func Fixed(n int) ArgumentCount {
	return ArgumentCount{Kind: ArgsFixed, Count: n}
}

// AtMostOne returns the optional single word arity.
func AtMostOne() ArgumentCount {
	return ArgumentCount{Kind: ArgsAtMostOne}
}

// AtLeastOne returns the one-or-more arity.
func AtLeastOne() ArgumentCount {
	return ArgumentCount{Kind: ArgsAtLeastOne}
}

// Any returns the zero-or-more arity.
func Any() ArgumentCount {
	return ArgumentCount{Kind: ArgsAny}
}

func (a ArgumentCount) String() string {
	switch a.Kind {
	case ArgsFixed:
		return fmt.Sprintf("Fixed(%d)", a.Count)
	case ArgsAtMostOne:
		return "AtMostOne"
	case ArgsAtLeastOne:
		return "AtLeastOne"
	case ArgsAny:
		return "Any"
	default:
		return fmt.Sprintf("ArgumentKind(%d)", int(a.Kind))
	}
}

// ExpectedType tags the dynamic source of completion values for a slot.
type ExpectedType int

const (
	// Unknown slots have no dynamic completion values.
	Unknown ExpectedType = iota
	// ProfileName slots complete with the names of defined profiles.
	ProfileName
	// FilesystemPath slots complete with directory entries.
	FilesystemPath
)

func (t ExpectedType) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case ProfileName:
		return "ProfileName"
	case FilesystemPath:
		return "FilesystemPath"
	default:
		return fmt.Sprintf("ExpectedType(%d)", int(t))
	}
}

// Option is a named switch of a command, possibly taking values.
type Option struct {
	Names        []string      `yaml:"names"`
	Values       []string      `yaml:"values"`
	Arguments    ArgumentCount `yaml:"arguments"`
	ExpectedType ExpectedType  `yaml:"expected_type"`
}

// HasName reports whether name is one of the option's aliases.
func (o *Option) HasName(name string) bool {
	return slices.Contains(o.Names, name)
}

// Positional is an unnamed argument slot of a command.
type Positional struct {
	Arguments    ArgumentCount `yaml:"arguments"`
	ExpectedType ExpectedType  `yaml:"expected_type"`
}

// Command is a node of the grammar tree. A command exclusively owns its
// children; the tree carries no parent links.
type Command struct {
	Name        string        `yaml:"name"`
	Subcommands []*Command    `yaml:"subcommands"`
	Options     []*Option     `yaml:"options"`
	Positionals []*Positional `yaml:"positionals"`
}

// FindSubcommand returns the direct subcommand called name.
func (c *Command) FindSubcommand(name string) (*Command, bool) {
	return lo.Find(c.Subcommands, func(sub *Command) bool {
		return sub.Name == name
	})
}

// FindOption returns the first direct option having name as an alias.
func (c *Command) FindOption(name string) (*Option, bool) {
	return lo.Find(c.Options, func(opt *Option) bool {
		return opt.HasName(name)
	})
}

// IsOption reports whether name is an alias of one of the command's options.
func (c *Command) IsOption(name string) bool {
	_, ok := c.FindOption(name)
	return ok
}

// OptionNames returns every alias of every direct option, in declaration order.
func (c *Command) OptionNames() []string {
	return lo.FlatMap(c.Options, func(opt *Option, _ int) []string {
		return opt.Names
	})
}

// SubcommandNames returns the names of the direct subcommands, in declaration order.
func (c *Command) SubcommandNames() []string {
	return lo.Map(c.Subcommands, func(sub *Command, _ int) string {
		return sub.Name
	})
}
