package completion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/e4s-project/e4s-cl-completion/internal/grammar"
	"github.com/e4s-project/e4s-cl-completion/internal/resolve"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticProfiles []string

func (p staticProfiles) Names() []string {
	return p
}

// countingProfiles records how often the store was asked for names.
type countingProfiles struct {
	names []string
	calls int
}

func (p *countingProfiles) Names() []string {
	p.calls++
	return p.names
}

func testTree() *grammar.Command {
	return &grammar.Command{
		Name: "prog",
		Options: []*grammar.Option{
			{Names: []string{"-v", "--version"}},
		},
		Subcommands: []*grammar.Command{
			{
				Name: "launch",
				Options: []*grammar.Option{
					{Names: []string{"--profile"}, Arguments: grammar.Fixed(1), ExpectedType: grammar.ProfileName},
					{Names: []string{"--files"}, Arguments: grammar.AtLeastOne(), ExpectedType: grammar.FilesystemPath},
					{Names: []string{"--backend"}, Arguments: grammar.Fixed(1), Values: []string{"docker", "podman", "docker"}},
				},
				Positionals: []*grammar.Positional{
					{Arguments: grammar.Fixed(1), ExpectedType: grammar.ProfileName},
					{Arguments: grammar.Any(), ExpectedType: grammar.FilesystemPath},
				},
			},
			{
				Name: "profile",
				Subcommands: []*grammar.Command{
					{Name: "list"},
					{Name: "show", Positionals: []*grammar.Positional{
						{Arguments: grammar.Fixed(1), ExpectedType: grammar.ProfileName},
						{Arguments: grammar.Fixed(1), ExpectedType: grammar.ProfileName},
					}},
				},
			},
		},
	}
}

func TestGeneratorCandidates(t *testing.T) {
	workDir := setupTestDirectory(t)
	generator := NewGenerator(staticProfiles{"A", "Ab", "B"}, workDir, zap.NewNop())
	root := testTree()

	tests := []struct {
		name     string
		words    []string
		expected []string
	}{
		{
			name:     "root command",
			words:    []string{"prog", ""},
			expected: []string{"-v", "--version", "launch", "profile"},
		},
		{
			name:     "profile option value",
			words:    []string{"prog", "launch", "--profile", "A"},
			expected: []string{"A", "Ab", "B"},
		},
		{
			name:     "static values are de-duplicated",
			words:    []string{"prog", "launch", "--backend", ""},
			expected: []string{"docker", "podman"},
		},
		{
			name:     "path option value",
			words:    []string{"prog", "launch", "--files", "folder1/"},
			expected: []string{"folder1/deep/", "folder1/inside.txt"},
		},
		{
			name:  "command with positionals",
			words: []string{"prog", "launch", ""},
			expected: []string{
				"--profile", "--files", "--backend",
				"A", "Ab", "B",
				".hidden", "file1.txt", "file2.txt", "folder1/", "folder2/",
			},
		},
		{
			name:     "consumed positionals no longer contribute",
			words:    []string{"prog", "launch", "A", "fi"},
			expected: []string{"--profile", "--files", "--backend", "file1.txt", "file2.txt"},
		},
		{
			name:     "identical positionals contribute once",
			words:    []string{"prog", "profile", "show", ""},
			expected: []string{"A", "Ab", "B"},
		},
		{
			name:     "every positional consumed",
			words:    []string{"prog", "profile", "show", "A", "B", ""},
			expected: []string{},
		},
		{
			name:     "nested subcommands",
			words:    []string{"prog", "profile", ""},
			expected: []string{"list", "show"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generator.Candidates(resolve.Resolve(root, tt.words))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeneratorWithoutProfiles(t *testing.T) {
	generator := NewGenerator(nil, t.TempDir(), nil)
	ctx := resolve.Resolve(testTree(), []string{"prog", "launch", "--profile", ""})

	assert.Empty(t, generator.Candidates(ctx))
}

func TestGeneratorLogsPathFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	generator := NewGenerator(staticProfiles{}, t.TempDir(), zap.New(core))
	ctx := resolve.Resolve(testTree(), []string{"prog", "launch", "--files", "missing/"})

	assert.Empty(t, generator.Candidates(ctx))

	entries := logs.FilterMessage("failed to list path completions").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "missing/", entries[0].ContextMap()["prefix"])
}

func TestGeneratorDoesNotLoadUnusedProfiles(t *testing.T) {
	profiles := &countingProfiles{names: []string{"A"}}
	generator := NewGenerator(profiles, t.TempDir(), zap.NewNop())

	generator.Candidates(resolve.Resolve(testTree(), []string{"prog", ""}))
	assert.Equal(t, 0, profiles.calls)

	generator.Candidates(resolve.Resolve(testTree(), []string{"prog", "launch", "--profile", ""}))
	assert.Equal(t, 1, profiles.calls)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		prefix     string
		expected   []string
	}{
		{name: "empty prefix keeps all", candidates: []string{"b", "a"}, prefix: "", expected: []string{"b", "a"}},
		{name: "prefix match", candidates: []string{"A", "Ab", "B"}, prefix: "A", expected: []string{"A", "Ab"}},
		{name: "case sensitive", candidates: []string{"a", "A"}, prefix: "a", expected: []string{"a"}},
		{name: "duplicates dropped", candidates: []string{"x", "y", "x"}, prefix: "", expected: []string{"x", "y"}},
		{name: "no match", candidates: []string{"x"}, prefix: "z", expected: []string{}},
		{name: "nothing to filter", candidates: nil, prefix: "z", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Filter(tt.candidates, tt.prefix))
		})
	}
}

func TestProviderComplete(t *testing.T) {
	workDir := setupTestDirectory(t)
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "--weird"), []byte("x"), 0644))

	provider := NewProvider(testTree(), staticProfiles{"A", "Ab", "B"}, workDir, zap.NewNop())

	t.Run("profile value", func(t *testing.T) {
		assert.Equal(t, []string{"A", "Ab"}, provider.Complete([]string{"prog", "launch", "--profile", "A"}))
	})

	t.Run("root", func(t *testing.T) {
		assert.Equal(t, []string{"-v", "--version", "launch", "profile"}, provider.Complete([]string{"prog", ""}))
	})

	t.Run("greedy option hands over to the next option", func(t *testing.T) {
		assert.Equal(t, []string{"docker", "podman"},
			provider.Complete([]string{"prog", "launch", "--files", "a", "b", "--backend", ""}))
	})

	t.Run("option alias in progress completes to itself", func(t *testing.T) {
		assert.Equal(t, []string{"--backend"},
			provider.Complete([]string{"prog", "launch", "--files", "a", "b", "--backend"}))
	})

	t.Run("options and files share a prefix", func(t *testing.T) {
		assert.Equal(t, []string{"--profile", "--files", "--backend", "--weird"},
			provider.Complete([]string{"prog", "launch", "--"}))
	})
}

func TestProviderLogsContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	provider := NewProvider(testTree(), staticProfiles{"A"}, t.TempDir(), zap.New(core))

	provider.Complete([]string{"prog", "launch", "--profile", ""})

	entries := logs.FilterMessage("resolved completion context").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "AwaitingOptionValue", fields["state"])
	assert.Equal(t, "", fields["prefix"])
}

func TestProviderPrefixLaw(t *testing.T) {
	workDir := setupTestDirectory(t)
	provider := NewProvider(testTree(), staticProfiles{"A", "Ab", "B"}, workDir, zap.NewNop())

	lines := [][]string{
		{"prog", ""},
		{"prog", "l"},
		{"prog", "launch", "--"},
		{"prog", "launch", "--profile", "A"},
		{"prog", "launch", "--files", "folder1/d"},
		{"prog", "launch", "A", "f"},
		{"prog", "profile", "s"},
		{"prog", "unknown", "x"},
	}
	for _, words := range lines {
		prefix := words[len(words)-1]
		got := provider.Complete(words)
		for _, c := range got {
			assert.True(t, strings.HasPrefix(c, prefix), "%q does not start with %q", c, prefix)
		}
		assert.Equal(t, got, provider.Complete(words), "completion of %q is not deterministic", words)
	}
}
