package yang

import (
	"slices"

	"github.com/rs/zerolog"
)

// NewLoadOptions returns a default, valid load options value.
func NewLoadOptions() LoadOptions {
	return LoadOptions{}
}

// WithLogger sets the logger receiving phase progress and non-fatal
// deviation diagnostics. Without one the logger of the compile context is
// used.
func (o LoadOptions) WithLogger(logger zerolog.Logger) LoadOptions {
	o.logger = &logger
	return o
}

// WithResolver sets a resolver consulted for imports and includes that the
// added file systems do not provide.
func (o LoadOptions) WithResolver(r Resolver) LoadOptions {
	o.resolver = r
	return o
}

// WithSupportedFeatures limits the supported features of the module with
// the given namespace to names. Once any module is limited, modules that
// were never listed support no features.
func (o LoadOptions) WithSupportedFeatures(namespace string, names ...string) LoadOptions {
	features := cloneList(o.supportedFeatures)
	if features == nil {
		features = make(map[string][]string)
	}
	features[namespace] = append(features[namespace], names...)
	if features[namespace] == nil {
		features[namespace] = []string{}
	}
	o.supportedFeatures = features
	return o
}

// WithAllFeatures makes every feature of every module supported.
func (o LoadOptions) WithAllFeatures() LoadOptions {
	o.supportedFeatures = nil
	return o
}

// WithModuleDeviatedBy allows the deviating modules to deviate nodes of
// module. Once any module is listed, deviations of unlisted pairs are
// ignored.
func (o LoadOptions) WithModuleDeviatedBy(module string, deviating ...string) LoadOptions {
	deviatedBy := cloneList(o.deviatedBy)
	if deviatedBy == nil {
		deviatedBy = make(map[string][]string)
	}
	for _, d := range deviating {
		if !slices.Contains(deviatedBy[module], d) {
			deviatedBy[module] = append(deviatedBy[module], d)
		}
	}
	if deviatedBy[module] == nil {
		deviatedBy[module] = []string{}
	}
	o.deviatedBy = deviatedBy
	return o
}

// WithParseConcurrency sets how many sources are parsed in parallel (0 uses default).
func (o LoadOptions) WithParseConcurrency(value int) LoadOptions {
	o.parseConcurrency = intOption{value: value, set: true}
	return o
}

// WithMaxDepth sets the statement nesting limit (0 uses default).
func (o LoadOptions) WithMaxDepth(value int) LoadOptions {
	o.maxDepth = intOption{value: value, set: true}
	return o
}

// WithMaxSourceSize sets the size limit of one source in bytes (0 uses default).
func (o LoadOptions) WithMaxSourceSize(value int64) LoadOptions {
	o.maxSourceSize = int64Option{value: value, set: true}
	return o
}
