// Package config reads YAML compile profiles. A profile names the main and
// library sources of a schema set together with feature and deviation
// settings:
//
//	version: 1
//	sources: ["models/*.yang"]
//	library: ["vendor/**/*.yang"]
//	features:
//	  urn:example:system: [ntp, radius]
//	deviations:
//	  example-system: [example-system-devs]
//	limits:
//	  parse-concurrency: 8
//	  max-depth: 128
//	  max-source-size: 1048576
//
// Omitting features supports every feature; listing any namespace limits
// unlisted modules to no features. Deviations work the same way per target
// module name.
package config

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"github.com/jacoelho/yang"
	"github.com/jacoelho/yang/internal/source"
	"github.com/jacoelho/yang/schema"
)

// CurrentVersion is the profile format version.
const CurrentVersion = 1

// Limits bounds parsing; zero values use the library defaults.
type Limits struct {
	ParseConcurrency int   `yaml:"parse-concurrency"`
	MaxDepth         int   `yaml:"max-depth"`
	MaxSourceSize    int64 `yaml:"max-source-size"`
}

// Profile is a compile profile.
type Profile struct {
	Features   map[string][]string `yaml:"features"`
	Deviations map[string][]string `yaml:"deviations"`
	Sources    []string            `yaml:"sources"`
	Library    []string            `yaml:"library"`
	Limits     Limits              `yaml:"limits"`
	Version    int                 `yaml:"version"`
}

// Load reads and validates the profile at path in fsys.
func Load(fsys fs.FS, path string) (Profile, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errbuilder.CodeNotFound
		}
		return Profile{}, errbuilder.New().
			WithCode(code).
			WithMsg("profile " + path + " could not be read").
			WithCause(err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a profile. Unknown keys are rejected.
func Parse(r io.Reader) (Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Profile
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse profile yaml").
			WithCause(err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the profile for missing or malformed entries.
func (p Profile) Validate() error {
	if p.Version != 0 && p.Version != CurrentVersion {
		return invalid("unsupported profile version %d", p.Version)
	}
	if len(p.Sources) == 0 {
		return invalid("profile lists no sources")
	}
	for _, list := range [][]string{p.Sources, p.Library} {
		for _, pattern := range list {
			if strings.TrimSpace(pattern) == "" {
				return invalid("profile contains an empty source pattern")
			}
		}
	}
	if err := p.LoadOptions().Validate(); err != nil {
		return invalid("%v", err)
	}
	return nil
}

// LoadOptions converts the profile settings into load options.
func (p Profile) LoadOptions() yang.LoadOptions {
	opts := yang.NewLoadOptions().
		WithParseConcurrency(p.Limits.ParseConcurrency).
		WithMaxDepth(p.Limits.MaxDepth).
		WithMaxSourceSize(p.Limits.MaxSourceSize)
	for namespace, names := range p.Features {
		opts = opts.WithSupportedFeatures(namespace, names...)
	}
	for module, deviating := range p.Deviations {
		opts = opts.WithModuleDeviatedBy(module, deviating...)
	}
	return opts
}

// Apply adds the sources of the profile found in fsys to set and replaces
// its load options.
func (p Profile) Apply(set *yang.SchemaSet, fsys fs.FS) error {
	if set == nil {
		return invalid("nil schema set")
	}
	locations, err := source.Discover(fsys, p.Sources...)
	if err != nil {
		return invalid("%v", err)
	}
	if len(locations) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no source matches " + strings.Join(p.Sources, ", "))
	}
	if err := set.AddFS(fsys, locations...); err != nil {
		return err
	}
	if len(p.Library) > 0 {
		if err := set.AddLibraryFS(fsys, p.Library...); err != nil {
			return err
		}
	}
	set.WithLoadOptions(p.LoadOptions())
	return nil
}

// Compile builds a schema set from the profile and compiles it.
func (p Profile) Compile(ctx context.Context, fsys fs.FS) (*schema.Context, error) {
	set := yang.NewSchemaSet()
	if err := p.Apply(set, fsys); err != nil {
		return nil, err
	}
	return set.Compile(ctx)
}
