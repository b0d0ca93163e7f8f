// Package astbridge shells out to an optional external AST provider for
// files the built-in text extraction cannot handle well. The provider is
// any executable taking a file path argument and printing one JSON
// document on stdout; output is schema-validated before use. Every failure
// mode (missing binary, non-zero exit, timeout, invalid output) surfaces
// as an error so the caller can fall back to text extraction.
package astbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/siftlabs/sift/pkg/framework"
	"github.com/siftlabs/sift/pkg/models"
)

// DefaultTimeout bounds one provider invocation.
const DefaultTimeout = 30 * time.Second

const resultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["className"],
  "properties": {
    "className": {"type": "string", "minLength": 1},
    "parentClassName": {"type": "string"},
    "package": {"type": "string"},
    "imports": {"type": "array", "items": {"type": "string"}},
    "annotations": {"$ref": "#/$defs/annotations"},
    "testMethods": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "lineNumber": {"type": "integer", "minimum": 1},
          "line": {"type": "integer", "minimum": 1},
          "annotations": {"$ref": "#/$defs/annotations"}
        }
      }
    }
  },
  "$defs": {
    "annotations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "attributes": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

// Annotation is one annotation as reported by the provider. Attribute
// values arrive as plain strings; typing happens during conversion.
type Annotation struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Method is one test method as reported by the provider. Providers name
// the declaration line "lineNumber"; "line" is accepted as an alias.
type Method struct {
	Name        string       `json:"name"`
	Line        int          `json:"lineNumber,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Result is the provider's view of one source file.
type Result struct {
	ClassName       string       `json:"className"`
	ParentClassName string       `json:"parentClassName,omitempty"`
	Package         string       `json:"package,omitempty"`
	Imports         []string     `json:"imports,omitempty"`
	Annotations     []Annotation `json:"annotations,omitempty"`
	TestMethods     []Method     `json:"testMethods,omitempty"`
}

// Provider runs the external AST executable.
type Provider struct {
	command string
	timeout time.Duration
	schema  *jsonschema.Schema
}

// New creates a provider for the given command. An empty command yields a
// disabled provider; Extract then fails immediately and the caller keeps
// using text extraction.
func New(command string, timeout time.Duration) (*Provider, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(resultSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing bridge schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bridge.schema.json", doc); err != nil {
		return nil, fmt.Errorf("registering bridge schema: %w", err)
	}
	schema, err := compiler.Compile("bridge.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling bridge schema: %w", err)
	}

	return &Provider{command: command, timeout: timeout, schema: schema}, nil
}

// Enabled reports whether a provider command is configured. A nil
// provider is disabled.
func (p *Provider) Enabled() bool {
	return p != nil && p.command != ""
}

// Extract invokes the provider on one file and returns its validated
// result. The context bounds the whole invocation on top of the
// provider's own timeout.
func (p *Provider) Extract(ctx context.Context, path string) (*Result, error) {
	if !p.Enabled() {
		return nil, fmt.Errorf("ast provider not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.command, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("ast provider timed out after %s: %s", p.timeout, path)
		}
		return nil, fmt.Errorf("ast provider failed on %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("ast provider output is not JSON: %w", err)
	}
	if err := p.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("ast provider output rejected: %w", err)
	}

	result, err := decodeResult(doc)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decodeResult maps the validated document onto the Result struct. The
// schema has already enforced shapes, so lookups here are lenient.
func decodeResult(doc any) (*Result, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("ast provider output is not an object")
	}

	r := &Result{
		ClassName:       str(obj["className"]),
		ParentClassName: str(obj["parentClassName"]),
		Package:         str(obj["package"]),
		Imports:         strSlice(obj["imports"]),
		Annotations:     annotations(obj["annotations"]),
	}
	if methods, ok := obj["testMethods"].([]any); ok {
		for _, m := range methods {
			mo, ok := m.(map[string]any)
			if !ok {
				continue
			}
			line := intVal(mo["lineNumber"])
			if line == 0 {
				line = intVal(mo["line"])
			}
			r.TestMethods = append(r.TestMethods, Method{
				Name:        str(mo["name"]),
				Line:        line,
				Annotations: annotations(mo["annotations"]),
			})
		}
	}
	return r, nil
}

// ToRecord converts a provider result into the shared class record,
// computing the same derived fields the text extractors compute.
func (r *Result) ToRecord(path string, derive func(models.Framework, []models.SourceAnnotation) models.TestMethodRecord) models.TestClassRecord {
	fw := framework.DetectFile(r.Imports)

	record := models.TestClassRecord{
		ClassName:       r.ClassName,
		ParentClassName: r.ParentClassName,
		Package:         r.Package,
		Imports:         r.Imports,
		Annotations:     toSourceAnnotations(r.Annotations),
		Framework:       fw,
		FilePath:        path,
	}
	for _, m := range r.TestMethods {
		method := derive(fw, toSourceAnnotations(m.Annotations))
		method.MethodName = m.Name
		method.LineNumber = m.Line
		record.Methods = append(record.Methods, method)
	}
	return record
}

func toSourceAnnotations(anns []Annotation) []models.SourceAnnotation {
	var out []models.SourceAnnotation
	for _, a := range anns {
		ann := models.SourceAnnotation{Name: a.Name}
		if len(a.Attributes) > 0 {
			ann.Attributes = make(map[string]models.AttrValue, len(a.Attributes))
			for k, v := range a.Attributes {
				ann.Attributes[k] = typedAttr(v)
			}
		}
		out = append(out, ann)
	}
	return out
}

func typedAttr(v string) models.AttrValue {
	switch v {
	case "true":
		return models.BoolValue(true)
	case "false":
		return models.BoolValue(false)
	}
	return models.StringValue(v)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intVal(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case int:
		return n
	}
	return 0
}

func annotations(v any) []Annotation {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []Annotation
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		a := Annotation{Name: str(obj["name"])}
		if attrs, ok := obj["attributes"].(map[string]any); ok {
			a.Attributes = make(map[string]string, len(attrs))
			for k, val := range attrs {
				a.Attributes[k] = str(val)
			}
		}
		out = append(out, a)
	}
	return out
}
