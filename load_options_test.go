package yang_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/yang"
)

func TestLoadOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    yang.LoadOptions
		wantErr bool
	}{
		{name: "defaults", opts: yang.NewLoadOptions()},
		{name: "zero uses default", opts: yang.NewLoadOptions().WithParseConcurrency(0).WithMaxDepth(0).WithMaxSourceSize(0)},
		{name: "negative concurrency", opts: yang.NewLoadOptions().WithParseConcurrency(-1), wantErr: true},
		{name: "negative depth", opts: yang.NewLoadOptions().WithMaxDepth(-2), wantErr: true},
		{name: "negative size", opts: yang.NewLoadOptions().WithMaxSourceSize(-3), wantErr: true},
		{name: "empty feature namespace", opts: yang.NewLoadOptions().WithSupportedFeatures(""), wantErr: true},
		{name: "empty deviating module", opts: yang.NewLoadOptions().WithModuleDeviatedBy("a", ""), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			requireInvalidArgument(t, err)
		})
	}
}

func TestLoadOptionsAreImmutable(t *testing.T) {
	fsys := mapFS(map[string]string{
		"a.yang": `module a {
			namespace "urn:a"; prefix a;
			feature one; feature two;
			leaf x { if-feature one; type string; }
			leaf y { if-feature two; type string; }
		}`,
	})
	base := yang.NewLoadOptions().WithSupportedFeatures("urn:a", "one")
	both := base.WithSupportedFeatures("urn:a", "two")

	children := func(opts yang.LoadOptions) int {
		ctx, err := yang.LoadWithOptions(context.Background(), fsys, opts, "a.yang")
		require.NoError(t, err)
		m, _ := ctx.FindModule("a", "")
		return len(m.Children)
	}
	require.Equal(t, 1, children(base))
	require.Equal(t, 2, children(both))
	require.Equal(t, 2, children(both.WithAllFeatures()))
}

func TestLoadOptionsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	fsys := mapFS(map[string]string{
		"a.yang": `module a { namespace "urn:a"; prefix a; leaf x { type string; } }`,
	})
	_, err := yang.LoadWithOptions(context.Background(), fsys, yang.NewLoadOptions().WithLogger(logger), "a.yang")
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"phase":"EFFECTIVE_MODEL"`)
	require.Contains(t, buf.String(), "phase finished")
}
