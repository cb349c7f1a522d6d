// Package definition loads declarative workflow documents and binds their
// named handlers and routers to registered functions. Documents are YAML;
// they describe graph topology only, never behaviour.
package definition

import (
	"context"
	"fmt"

	"github.com/graphor/graphor/model"
	"github.com/graphor/graphor/model/graph"
	"github.com/graphor/graphor/model/state"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"gopkg.in/yaml.v3"
)

type (
	// Bindings resolves the handler and router names a document references.
	Bindings[T any] struct {
		Handlers map[string]graph.StepFunc[T]
		Routers  map[string]graph.RouterFunc[T]
	}

	// Service loads workflow definitions from any location the abstract file
	// system understands, including embedded data.
	Service[T any] struct {
		fs afs.Service
	}

	document struct {
		Name          string          `yaml:"name"`
		Description   string          `yaml:"description,omitempty"`
		Version       string          `yaml:"version,omitempty"`
		Entry         string          `yaml:"entry,omitempty"`
		MaxIterations int             `yaml:"maxIterations,omitempty"`
		Init          []initParameter `yaml:"init,omitempty"`
		Steps         []stepNode      `yaml:"steps"`
	}

	initParameter struct {
		Name     string      `yaml:"name"`
		Value    interface{} `yaml:"value"`
		DataType string      `yaml:"dataType,omitempty"`
	}

	stepNode struct {
		Name     string     `yaml:"name"`
		Handler  string     `yaml:"handler"`
		Router   string     `yaml:"router,omitempty"`
		Terminal bool       `yaml:"terminal,omitempty"`
		Fatal    bool       `yaml:"fatal,omitempty"`
		Edges    []edgeNode `yaml:"edges,omitempty"`
	}

	edgeNode struct {
		Outcome    string   `yaml:"outcome"`
		Successors []string `yaml:"successors"`
	}
)

// NewBindings creates an empty binding set.
func NewBindings[T any]() *Bindings[T] {
	return &Bindings[T]{
		Handlers: map[string]graph.StepFunc[T]{},
		Routers:  map[string]graph.RouterFunc[T]{},
	}
}

// RegisterHandler binds a handler name used by documents.
func (b *Bindings[T]) RegisterHandler(name string, handler graph.StepFunc[T]) *Bindings[T] {
	b.Handlers[name] = handler
	return b
}

// RegisterRouter binds a router name used by documents.
func (b *Bindings[T]) RegisterRouter(name string, router graph.RouterFunc[T]) *Bindings[T] {
	b.Routers[name] = router
	return b
}

// New creates a definition service.
func New[T any]() *Service[T] {
	return &Service[T]{fs: afs.New()}
}

// Load reads a workflow document from the URL and decodes it against the
// bindings. Storage options such as an embedded file system are passed
// through to the underlying loader.
func (s *Service[T]) Load(ctx context.Context, URL string, bindings *Bindings[T], options ...storage.Option) (*model.Workflow[T], error) {
	data, err := s.fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow definition %v: %w", URL, err)
	}
	return s.Decode(data, bindings)
}

// Decode builds a workflow from raw document bytes.
func (s *Service[T]) Decode(data []byte, bindings *Bindings[T]) (*model.Workflow[T], error) {
	doc := &document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse workflow definition: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("workflow definition has no name")
	}
	workflow := model.NewWorkflow[T](doc.Name).
		WithDescription(doc.Description).
		WithVersion(doc.Version).
		WithMaxIterations(doc.MaxIterations)
	for _, param := range doc.Init {
		workflow.Init = append(workflow.Init, &state.Parameter{Name: param.Name, Value: param.Value, DataType: param.DataType})
	}
	for i := range doc.Steps {
		step, err := s.decodeStep(&doc.Steps[i], bindings)
		if err != nil {
			return nil, fmt.Errorf("workflow %v: %w", doc.Name, err)
		}
		workflow.AddStep(step)
	}
	if doc.Entry != "" {
		workflow.WithEntry(doc.Entry)
	}
	if issues := workflow.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("workflow %v is invalid: %v", doc.Name, issues[0])
	}
	return workflow, nil
}

func (s *Service[T]) decodeStep(node *stepNode, bindings *Bindings[T]) (*graph.Step[T], error) {
	if node.Name == "" {
		return nil, fmt.Errorf("step has no name")
	}
	handler, ok := bindings.Handlers[node.Handler]
	if !ok {
		return nil, fmt.Errorf("step %v references unbound handler %v", node.Name, node.Handler)
	}
	step := graph.NewStep(node.Name, handler)
	if node.Router != "" {
		router, ok := bindings.Routers[node.Router]
		if !ok {
			return nil, fmt.Errorf("step %v references unbound router %v", node.Name, node.Router)
		}
		step.WithRouter(router)
	}
	if node.Terminal {
		step.WithTerminal()
	}
	if node.Fatal {
		step.WithFatal()
	}
	for _, edge := range node.Edges {
		step.WithEdge(graph.Outcome(edge.Outcome), edge.Successors...)
	}
	return step, nil
}
