package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/parser"
	"github.com/jacoelho/yang/internal/stmt"
)

// DefaultMaxSize bounds the size of one source when Config.MaxSize is zero.
const DefaultMaxSize = 16 << 20

// Source is one parsed YANG module or submodule.
type Source struct {
	SystemID string
	Root     *stmt.Statement
	Info     Info
	Library  bool
}

// Input is a source to be loaded.
type Input struct {
	Open     func() (io.ReadCloser, error)
	SystemID string
	Library  bool
	// fetched is the reader a resolver already opened; it is closed when
	// the input is dropped without being parsed.
	fetched io.ReadCloser
}

// release closes the reader of a fetched input that was never parsed.
func (in Input) release() {
	if in.fetched != nil {
		_ = in.fetched.Close()
	}
}

// Config configures a Loader.
type Config struct {
	// Resolver fetches imported modules and included submodules that are not
	// among the inputs. Fetched sources are loaded as library sources.
	Resolver    Resolver
	Concurrency int
	MaxDepth    int
	MaxSize     int64
}

// Loader reads, lexes and parses sources.
type Loader struct {
	cfg Config
}

// NewLoader creates a loader.
func NewLoader(cfg Config) *Loader {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	return &Loader{cfg: cfg}
}

// Load parses every input in parallel, then follows unresolved imports and
// includes through the configured resolver until no new source appears.
func (l *Loader) Load(ctx context.Context, inputs []Input) ([]*Source, error) {
	sources, err := l.parseAll(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if l.cfg.Resolver == nil {
		return sources, nil
	}

	tried := make(map[ResolveRequest]bool)
	loaded := make(map[string]bool, len(sources))
	for _, s := range sources {
		loaded[s.SystemID] = true
	}
	for {
		var fetched []Input
		for _, req := range missingDeps(sources) {
			if tried[req] {
				continue
			}
			tried[req] = true
			input, ok, err := l.fetch(req)
			if err != nil {
				for _, in := range fetched {
					in.release()
				}
				return nil, err
			}
			if !ok {
				continue
			}
			if loaded[input.SystemID] {
				input.release()
				continue
			}
			loaded[input.SystemID] = true
			fetched = append(fetched, input)
		}
		if len(fetched) == 0 {
			return sources, nil
		}
		more, err := l.parseAll(ctx, fetched)
		if err != nil {
			return nil, err
		}
		zerolog.Ctx(ctx).Debug().Int("sources", len(more)).Msg("resolved dependency sources")
		sources = append(sources, more...)
	}
}

func (l *Loader) fetch(req ResolveRequest) (Input, bool, error) {
	rc, systemID, err := l.cfg.Resolver.Resolve(req)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Input{}, false, nil
		}
		return Input{}, false, fmt.Errorf("resolve %s: %w", req.Name, err)
	}
	return Input{
		SystemID: systemID,
		Library:  true,
		Open:     func() (io.ReadCloser, error) { return rc, nil },
		fetched:  rc,
	}, true, nil
}

func (l *Loader) parseAll(ctx context.Context, inputs []Input) ([]*Source, error) {
	out := make([]*Source, len(inputs))
	started := make([]bool, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started[i] = true
			src, err := l.parseOne(in)
			if err != nil {
				return err
			}
			out[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for i, in := range inputs {
			if !started[i] {
				in.release()
			}
		}
		return nil, err
	}
	return out, nil
}

func (l *Loader) parseOne(in Input) (*Source, error) {
	if in.Open == nil {
		return nil, fmt.Errorf("source %s: no reader", in.SystemID)
	}
	rc, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", in.SystemID, err)
	}
	data, err := io.ReadAll(io.LimitReader(rc, l.cfg.MaxSize+1))
	closeErr := rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", in.SystemID, err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close source %s: %w", in.SystemID, closeErr)
	}
	if int64(len(data)) > l.cfg.MaxSize {
		return nil, yangerrors.New(yangerrors.ErrSource, yangerrors.Reference{Source: in.SystemID},
			"Source %s exceeds maximum size of %d bytes", in.SystemID, l.cfg.MaxSize)
	}
	return Parse(in.SystemID, string(data), in.Library, l.cfg.MaxDepth)
}

// Parse parses one source text and extracts its header.
func Parse(systemID, text string, library bool, maxDepth int) (*Source, error) {
	res, err := parser.Parse(systemID, text, parser.Options{MaxDepth: maxDepth})
	if err != nil {
		return nil, err
	}
	info, err := ExtractInfo(res.Root, res.Escapes)
	if err != nil {
		return nil, err
	}
	if err := CheckFileName(systemID, info); err != nil {
		return nil, err
	}
	return &Source{SystemID: systemID, Root: res.Root, Info: info, Library: library}, nil
}

// missingDeps lists imports and includes no loaded source satisfies.
func missingDeps(sources []*Source) []ResolveRequest {
	have := func(name, rev string) bool {
		return slices.ContainsFunc(sources, func(s *Source) bool {
			return s.Info.Name == name && (rev == "" || s.Info.Revision == rev)
		})
	}
	var out []ResolveRequest
	for _, s := range sources {
		for _, imp := range s.Info.Imports {
			if !have(imp.Module, imp.RevisionDate) {
				out = append(out, ResolveRequest{Kind: ResolveImport, BaseSystemID: s.SystemID, Name: imp.Module, Revision: imp.RevisionDate})
			}
		}
		for _, inc := range s.Info.Includes {
			if !have(inc.Submodule, inc.RevisionDate) {
				out = append(out, ResolveRequest{Kind: ResolveInclude, BaseSystemID: s.SystemID, Name: inc.Submodule, Revision: inc.RevisionDate})
			}
		}
		if s.Info.Kind == KindSubmodule && !have(s.Info.BelongsTo, "") {
			out = append(out, ResolveRequest{Kind: ResolveImport, BaseSystemID: s.SystemID, Name: s.Info.BelongsTo})
		}
	}
	return out
}
