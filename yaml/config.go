// Package yaml loads sitecrawl configuration from YAML files.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/sitecrawl"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path and overlays it onto base.
// Keys absent from the file keep their base values. Durations are written
// as Go duration strings such as "500ms" or "15s".
// Returns ENOTFOUND if the file does not exist and EINVALID if it cannot be
// decoded or the resulting configuration is invalid.
func LoadConfig(path string, base sitecrawl.Config) (sitecrawl.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "config file %s not found", path)
		}
		return base, err
	}
	defer f.Close()

	return DecodeConfig(f, base)
}

// DecodeConfig decodes YAML from r onto base and validates the result.
// Unknown keys are rejected. An empty document leaves base unchanged.
func DecodeConfig(r io.Reader, base sitecrawl.Config) (sitecrawl.Config, error) {
	cfg := base
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, sitecrawl.Errorf(sitecrawl.EINVALID, "decode config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// EncodeConfig writes cfg as YAML, e.g. to seed a config file.
func EncodeConfig(w io.Writer, cfg sitecrawl.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
