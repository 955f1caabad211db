// Command gen writes the component declarations used by page-stress.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"text/template"

	"golang.org/x/tools/imports"
)

// payload is the field type of a generated component and the expression that
// derives a value of it from a uint64 named seed.
type payload struct {
	Type string
	Init string
}

var payloads = []payload{
	{"float32", "float32(seed)"},
	{"[2]float64", "[2]float64{float64(seed)}"},
	{"uint8", "uint8(seed)"},
	{"[3]int32", "[3]int32{int32(seed)}"},
	{"uint64", "seed"},
	{"[5]uint16", "[5]uint16{uint16(seed)}"},
}

type component struct {
	Name string
	payload
}

const source = `// Code generated by gen; DO NOT EDIT.

package main

import "github.com/plus3/archstore/ecs"

const componentCount = {{len .}}

{{range .}}
type {{.Name}} struct {
	Value {{.Type}}
}
{{end}}

// RegisterAllGeneratedComponents registers every generated component and
// returns their ids in declaration order.
func RegisterAllGeneratedComponents(r *ecs.ComponentRegistry) []ecs.ComponentId {
	return []ecs.ComponentId{
{{- range .}}
		ecs.RegisterComponent[{{.Name}}](r),
{{- end}}
	}
}

// PutGeneratedComponent stores a value of the i-th generated component in b.
func PutGeneratedComponent(b *ecs.Bundle, i int, seed uint64) {
	switch i {
{{- range $i, $c := .}}
	case {{$i}}:
		ecs.Put(b, {{$c.Name}}{Value: {{$c.Init}}})
{{- end}}
	}
}
`

func main() {
	count := flag.Int("components", 24, "Number of component types to generate.")
	out := flag.String("out", "components_gen.go", "File to write.")
	flag.Parse()

	components := make([]component, *count)
	for i := range components {
		components[i] = component{
			Name:    fmt.Sprintf("Component%02d", i),
			payload: payloads[i%len(payloads)],
		}
	}

	var buf bytes.Buffer
	tmpl := template.Must(template.New("components").Parse(source))
	if err := tmpl.Execute(&buf, components); err != nil {
		log.Fatalf("Failed to render components: %v", err)
	}

	formatted, err := imports.Process(*out, buf.Bytes(), nil)
	if err != nil {
		log.Fatalf("Failed to format generated source: %v", err)
	}
	if err := os.WriteFile(*out, formatted, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %d components to %s", *count, *out)
}
