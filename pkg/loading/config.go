package loading

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported options file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// LoadOptions reads an options file from fsys. The format follows the file
// extension; unknown extensions are tried as JSON, YAML and then TOML.
func LoadOptions(fsys fs.FS, path string) (Options, error) {
	if fsys == nil {
		return Options{}, fmt.Errorf("loading: options filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Options{}, fmt.Errorf("loading: read options %s: %w", path, err)
	}
	opts, err := parseOptions(data, formatFromPath(path))
	if err != nil {
		return Options{}, fmt.Errorf("loading: options %s: %w", path, err)
	}
	return opts, nil
}

// ParseOptions decodes data in the given format. An empty format tries every
// supported one.
func ParseOptions(data []byte, format string) (Options, error) {
	opts, err := parseOptions(data, format)
	if err != nil {
		return Options{}, fmt.Errorf("loading: %w", err)
	}
	return opts, nil
}

func parseOptions(data []byte, format string) (Options, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Options{}, fmt.Errorf("options document is empty")
	}

	var (
		opts Options
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		err = json.Unmarshal(data, &opts)
	case FormatYAML, "yml":
		err = yaml.Unmarshal(data, &opts)
	case FormatTOML:
		err = toml.Unmarshal(data, &opts)
	case "":
		opts, err = parseAny(data)
	default:
		return Options{}, fmt.Errorf("unsupported options format %q", format)
	}
	if err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}

	if err := validatePolicy(opts.ReservedPolicy); err != nil {
		return Options{}, err
	}
	return NewOptions(WithOptions(opts)), nil
}

func parseAny(data []byte) (Options, error) {
	var opts Options
	if err := json.Unmarshal(data, &opts); err == nil {
		return opts, nil
	}
	opts = Options{}
	if err := yaml.Unmarshal(data, &opts); err == nil {
		return opts, nil
	}
	opts = Options{}
	if err := toml.Unmarshal(data, &opts); err == nil {
		return opts, nil
	}
	return Options{}, fmt.Errorf("invalid JSON, YAML or TOML")
}

func validatePolicy(policy ReservedPolicy) error {
	switch policy {
	case "", ReservedInBlacklist, ReservedAlways:
		return nil
	default:
		return fmt.Errorf("invalid reservedPolicy %q (must be %q or %q)", policy, ReservedInBlacklist, ReservedAlways)
	}
}

// ParseReservedPolicy validates a policy name, defaulting empty input to
// ReservedInBlacklist.
func ParseReservedPolicy(raw string) (ReservedPolicy, error) {
	policy := ReservedPolicy(strings.ToLower(strings.TrimSpace(raw)))
	if err := validatePolicy(policy); err != nil {
		return "", fmt.Errorf("loading: %w", err)
	}
	if policy == "" {
		return ReservedInBlacklist, nil
	}
	return policy, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return ""
	}
}
