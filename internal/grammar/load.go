package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

//go:embed e4s-cl.yaml
var defaultGrammar []byte

// SupportedVersions is the semver constraint a grammar document's version
// must satisfy.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

type document struct {
	Version string `yaml:"version"`
	Command `yaml:",inline"`
}

// Default returns the grammar of the e4s-cl command line shipped with the
// binary.
func Default() (*Command, error) {
	return Parse("embedded e4s-cl grammar", defaultGrammar)
}

// LoadFile reads and parses a grammar description from path.
func LoadFile(path string) (*Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaError{Source: path, Err: err}
	}
	return Parse(path, data)
}

// Parse builds the command tree described by data, a YAML or JSON document.
// The document is validated against the grammar schema, its version checked,
// then decoded and checked for name collisions. Any failure yields a
// *SchemaError and no tree.
func Parse(source string, data []byte) (*Command, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaError{Source: source, Err: err}
	}

	if err := validateDocument(source, raw); err != nil {
		return nil, err
	}

	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, asSchemaError(source, err)
	}

	if err := checkVersion(doc.Version); err != nil {
		return nil, &SchemaError{Source: source, Location: "/version", Err: err}
	}

	root := doc.Command
	if err := checkNames(&root, ""); err != nil {
		err.Source = source
		return nil, err
	}

	return &root, nil
}

func checkVersion(version string) error {
	if version == "" {
		return nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}

	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("unsupported grammar version %s (supported: %s)", v, SupportedVersions)
	}
	return nil
}

// checkNames enforces unique subcommand names among siblings and unique
// option aliases within a command.
func checkNames(cmd *Command, parent string) *SchemaError {
	location := strings.TrimSpace(parent + " " + cmd.Name)

	subcommands := make(map[string]bool, len(cmd.Subcommands))
	for _, sub := range cmd.Subcommands {
		if subcommands[sub.Name] {
			return &SchemaError{Location: location, Err: fmt.Errorf("duplicate subcommand %q", sub.Name)}
		}
		subcommands[sub.Name] = true
	}

	owners := make(map[string]int)
	for i, opt := range cmd.Options {
		for _, name := range opt.Names {
			if owner, ok := owners[name]; ok && owner != i {
				return &SchemaError{Location: location, Err: fmt.Errorf("option alias %q is declared by two options", name)}
			}
			owners[name] = i
		}
	}

	for _, sub := range cmd.Subcommands {
		if err := checkNames(sub, location); err != nil {
			return err
		}
	}
	return nil
}
