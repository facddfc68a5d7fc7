package completion

import (
	"github.com/e4s-project/e4s-cl-completion/internal/grammar"
	"github.com/e4s-project/e4s-cl-completion/internal/resolve"
	"go.uber.org/zap"
)

// Provider completes command lines against one grammar.
type Provider struct {
	root      *grammar.Command
	generator *Generator
	logger    *zap.Logger
}

// NewProvider creates a Provider for the tree rooted at root.
func NewProvider(root *grammar.Command, profiles ProfileSource, workDir string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		root:      root,
		generator: NewGenerator(profiles, workDir, logger),
		logger:    logger,
	}
}

// Complete returns the completions of the last of words, which holds the
// program name first.
func (p *Provider) Complete(words []string) []string {
	ctx := resolve.Resolve(p.root, words)

	fields := []zap.Field{
		zap.Stringer("state", ctx.State),
		zap.Strings("path", ctx.PathNames()),
		zap.Int("positionals", ctx.Positionals),
		zap.String("prefix", ctx.Prefix),
	}
	if ctx.Option != nil {
		fields = append(fields, zap.Strings("option", ctx.Option.Names))
	}
	p.logger.Debug("resolved completion context", fields...)

	completions := Filter(p.generator.Candidates(ctx), ctx.Prefix)
	p.logger.Debug("completions", zap.Int("count", len(completions)))
	return completions
}
