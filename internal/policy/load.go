package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames are the policy file names looked up by Discover, in priority order.
var FileNames = []string{"csorder.toml", ".csorder.toml", ".csorder.yaml", ".csorder.yml"}

// Discover walks up from startDir to locate a policy file.
func Discover(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile decodes a policy file on top of DefaultConfig.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return DecodeTOML(data, path)
	case ".yaml", ".yml":
		return DecodeYAML(data, path)
	}
	return Config{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// DecodeTOML decodes TOML settings. Unknown keys are an error.
func DecodeTOML(data []byte, name string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// DecodeYAML decodes YAML settings. Unknown keys are an error.
func DecodeYAML(data []byte, name string) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", name, err)
	}
	return cfg, nil
}

// Load finds the policy file for target and resolves it. Without a file the
// default policy is returned and path is empty.
func Load(target string) (p *Policy, path string, err error) {
	path, ok, err := Discover(target)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	p, err = Resolve(cfg)
	if err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return p, path, nil
}

// WriteDefault writes DefaultConfig as TOML.
func WriteDefault(w io.Writer) error {
	cfg := DefaultConfig()
	if _, err := io.WriteString(w, "# csorder ordering policy\n\n"); err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode policy: %w", err)
	}
	return nil
}
