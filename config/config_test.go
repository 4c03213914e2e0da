package config_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/yang/config"
	"github.com/jacoelho/yang/schema"
)

const profileYAML = `version: 1
sources: ["models/*.yang"]
library: ["vendor/**/*.yang"]
features:
  urn:sys: [ntp]
deviations:
  sys: [sys-devs]
limits:
  parse-concurrency: 2
  max-depth: 64
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"profile.yaml": &fstest.MapFile{Data: []byte(profileYAML)},
		"models/sys.yang": &fstest.MapFile{Data: []byte(`module sys {
			namespace "urn:sys"; prefix s;
			import common { prefix c; }
			feature ntp; feature radius;
			container system {
				leaf ntp-server { if-feature ntp; type c:host; }
				leaf radius-server { if-feature radius; type c:host; }
				leaf motd { type string; }
			}
		}`)},
		"models/sys-devs.yang": &fstest.MapFile{Data: []byte(`module sys-devs {
			namespace "urn:sys-devs"; prefix sd;
			import sys { prefix s; }
			deviation "/s:system/s:motd" { deviate not-supported; }
		}`)},
		"vendor/ietf/common.yang": &fstest.MapFile{Data: []byte(`module common {
			namespace "urn:common"; prefix c;
			typedef host { type string { length "1..253"; } }
		}`)},
		"vendor/ietf/unused.yang": &fstest.MapFile{Data: []byte(`module unused { namespace "urn:unused"; prefix u; }`)},
	}
}

func TestLoadProfile(t *testing.T) {
	p, err := config.Load(testFS(), "profile.yaml")
	require.NoError(t, err)

	want := config.Profile{
		Version:    1,
		Sources:    []string{"models/*.yang"},
		Library:    []string{"vendor/**/*.yang"},
		Features:   map[string][]string{"urn:sys": {"ntp"}},
		Deviations: map[string][]string{"sys": {"sys-devs"}},
		Limits:     config.Limits{ParseConcurrency: 2, MaxDepth: 64},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileCompile(t *testing.T) {
	fsys := testFS()
	p, err := config.Load(fsys, "profile.yaml")
	require.NoError(t, err)

	ctx, err := p.Compile(context.Background(), fsys)
	require.NoError(t, err)

	var names []string
	for _, m := range ctx.Modules() {
		names = append(names, m.Name)
	}
	require.ElementsMatch(t, []string{"sys", "sys-devs", "common"}, names)

	system, ok := ctx.FindNode(schema.QName{Module: schema.QNameModule{Namespace: "urn:sys"}, Name: "system"})
	require.True(t, ok)
	var children []string
	for _, c := range system.Children {
		children = append(children, c.QName.Name)
	}
	require.Equal(t, []string{"ntp-server"}, children)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errbuilder.ErrCode
	}{
		{name: "unknown key", yaml: "sources: [a.yang]\nextra: 1\n", code: errbuilder.CodeInvalidArgument},
		{name: "bad version", yaml: "version: 2\nsources: [a.yang]\n", code: errbuilder.CodeInvalidArgument},
		{name: "no sources", yaml: "version: 1\n", code: errbuilder.CodeInvalidArgument},
		{name: "empty pattern", yaml: "sources: [' ']\n", code: errbuilder.CodeInvalidArgument},
		{name: "negative limit", yaml: "sources: [a.yang]\nlimits: {max-depth: -1}\n", code: errbuilder.CodeInvalidArgument},
		{name: "malformed", yaml: "sources: [a.yang\n", code: errbuilder.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			require.Equal(t, tt.code, errbuilder.CodeOf(err))
		})
	}
}

func TestLoadMissingProfile(t *testing.T) {
	_, err := config.Load(fstest.MapFS{}, "missing.yaml")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestApplyWithoutMatches(t *testing.T) {
	p := config.Profile{Sources: []string{"nothing/*.yang"}}
	_, err := p.Compile(context.Background(), testFS())
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
