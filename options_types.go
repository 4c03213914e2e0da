package yang

import "github.com/rs/zerolog"

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved(def int) int {
	if !o.set || o.value == 0 {
		return def
	}
	return o.value
}

type int64Option struct {
	value int64
	set   bool
}

func (o int64Option) resolved(def int64) int64 {
	if !o.set || o.value == 0 {
		return def
	}
	return o.value
}

// LoadOptions configures source loading and compilation. The zero value
// and NewLoadOptions are valid; every With method returns a modified copy.
type LoadOptions struct {
	logger   *zerolog.Logger
	resolver Resolver
	// supportedFeatures is nil when every feature is supported.
	supportedFeatures map[string][]string
	// deviatedBy is nil when every deviation applies.
	deviatedBy       map[string][]string
	parseConcurrency intOption
	maxDepth         intOption
	maxSourceSize    int64Option
}

type resolvedLoadOptions struct {
	logger            *zerolog.Logger
	resolver          Resolver
	supportedFeatures map[string][]string
	deviatedBy        map[string][]string
	parseConcurrency  int
	maxDepth          int
	maxSourceSize     int64
}
