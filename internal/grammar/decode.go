package grammar

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes an argument count from either a non-negative integer
// or one of the ARGS_* sentinels.
func (a *ArgumentCount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return nodeError(value, "arguments", fmt.Errorf("expected an integer or a sentinel string, got a %s", kindName(value)))
	}

	switch value.ShortTag() {
	case "!!int":
		var n int
		if err := value.Decode(&n); err != nil {
			return nodeError(value, "arguments", err)
		}
		if n < 0 {
			return nodeError(value, "arguments", fmt.Errorf("negative argument count %d", n))
		}
		*a = Fixed(n)
		return nil
	case "!!str":
		switch value.Value {
		case ArgsSomeToken:
			*a = Any()
		case ArgsAtLeastOneToken:
			*a = AtLeastOne()
		case ArgsAtMostOneToken:
			*a = AtMostOne()
		default:
			return nodeError(value, "arguments", fmt.Errorf("unknown argument count %q", value.Value))
		}
		return nil
	default:
		return nodeError(value, "arguments", fmt.Errorf("unexpected %s value %q", value.ShortTag(), value.Value))
	}
}

// UnmarshalYAML decodes an expected type from its sentinel string.
func (t *ExpectedType) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
		return nodeError(value, "expected_type", fmt.Errorf("expected a string, got %s", kindName(value)))
	}

	switch value.Value {
	case ProfileNameToken:
		*t = ProfileName
	case FilesystemPathToken:
		*t = FilesystemPath
	default:
		return nodeError(value, "expected_type", fmt.Errorf("unknown expected type %q", value.Value))
	}
	return nil
}

func nodeError(value *yaml.Node, field string, err error) *SchemaError {
	return &SchemaError{Location: field, Line: value.Line, Err: err}
}

func kindName(value *yaml.Node) string {
	switch value.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return value.ShortTag()
	}
}

// asSchemaError converts decoder failures to a SchemaError, keeping the
// location of errors raised by the UnmarshalYAML methods above.
func asSchemaError(source string, err error) *SchemaError {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		schemaErr.Source = source
		return schemaErr
	}
	return &SchemaError{Source: source, Err: err}
}
