package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyServer    = "server"
	keySession   = "session"
	keyChat      = "chat"
	keyBatch     = "batch"
	keyOutput    = "output"
	keyLogging   = "logging"
	keyReference = "reference"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config fields.
// Other keys are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyServer:    true,
	keySession:   true,
	keyChat:      true,
	keyBatch:     true,
	keyOutput:    true,
	keyLogging:   true,
	keyReference: true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A key present in the overlay replaces the whole section; absent
// keys are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("merging %q from %s: %w", key, overlayPath, err)
		}
	}
	return nil
}

// unmarshalSection decodes node into a zero value of the section type so
// that the section is replaced rather than merged field by field.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyServer:
		var v ServerConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	case keySession:
		var v SessionConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Session = v
	case keyChat:
		var v ChatConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Chat = v
	case keyBatch:
		var v BatchConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Batch = v
	case keyOutput:
		var v OutputConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyReference:
		var v ReferenceConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Reference = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
