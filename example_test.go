package yang_test

import (
	"context"
	"fmt"
	"strings"
	"testing/fstest"

	"github.com/jacoelho/yang"
)

func ExampleLoad() {
	fsys := fstest.MapFS{
		"example.yang": &fstest.MapFile{Data: []byte(`module example {
  namespace "urn:example";
  prefix ex;
  container system {
    leaf hostname { type string; }
  }
}`)},
	}

	ctx, err := yang.Load(fsys, "example.yang")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	m, _ := ctx.FindModule("example", "")
	system, _ := m.ChildNamed("system")
	fmt.Println(system.Kind, system.Children[0].QName.Name)
	// Output: container hostname
}

func ExampleSchemaSet_Compile() {
	set := yang.NewSchemaSet(yang.NewLoadOptions().WithSupportedFeatures("urn:example"))
	err := set.AddSource("example.yang", strings.NewReader(`module example {
  namespace "urn:example";
  prefix ex;
  feature fancy;
  leaf plain { type string; }
  leaf fancy { if-feature fancy; type string; }
}`))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	ctx, err := set.Compile(context.Background())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, n := range ctx.DataChildren() {
		fmt.Println(n.QName.Name)
	}
	// Output: plain
}
