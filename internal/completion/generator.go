// Package completion turns a resolved completion context into the words bash
// should offer.
package completion

import (
	"strings"

	"github.com/e4s-project/e4s-cl-completion/internal/grammar"
	"github.com/e4s-project/e4s-cl-completion/internal/resolve"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ProfileSource provides the names of the profiles known to e4s-cl.
type ProfileSource interface {
	Names() []string
}

// Generator produces the unfiltered candidates of a Context.
type Generator struct {
	Profiles ProfileSource
	// WorkDir anchors relative path completions.
	WorkDir string
	Logger  *zap.Logger
}

// NewGenerator creates a Generator. profiles may be nil when no profile
// store is available.
func NewGenerator(profiles ProfileSource, workDir string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		Profiles: profiles,
		WorkDir:  workDir,
		Logger:   logger,
	}
}

// Candidates returns every word that may follow in ctx, in first-seen order
// and without duplicates. Candidates are not filtered by ctx.Prefix.
func (g *Generator) Candidates(ctx resolve.Context) []string {
	var candidates []string

	switch ctx.State {
	case resolve.AwaitingOptionValue:
		candidates = append(candidates, ctx.Option.Values...)
		candidates = append(candidates, g.dynamic(ctx.Option.ExpectedType, ctx.Prefix)...)
	default:
		cmd := ctx.Command()
		candidates = append(candidates, cmd.OptionNames()...)
		candidates = append(candidates, cmd.SubcommandNames()...)
		for _, positional := range lo.Drop(cmd.Positionals, ctx.Positionals) {
			candidates = append(candidates, g.dynamic(positional.ExpectedType, ctx.Prefix)...)
		}
	}

	return lo.Uniq(candidates)
}

func (g *Generator) dynamic(expected grammar.ExpectedType, prefix string) []string {
	switch expected {
	case grammar.ProfileName:
		if g.Profiles == nil {
			return nil
		}
		return g.Profiles.Names()
	case grammar.FilesystemPath:
		paths, err := PathCompletions(prefix, g.WorkDir)
		if err != nil {
			g.logger().Debug("failed to list path completions",
				zap.String("prefix", prefix), zap.Error(err))
			return nil
		}
		return paths
	default:
		return nil
	}
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// Filter keeps the candidates starting with prefix, byte for byte, dropping
// repeated ones.
func Filter(candidates []string, prefix string) []string {
	return lo.Uniq(lo.Filter(candidates, func(candidate string, _ int) bool {
		return strings.HasPrefix(candidate, prefix)
	}))
}
