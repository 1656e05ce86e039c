package tool

import (
	"context"
	"fmt"

	"netlens/internal/domain"
)

// Registry holds all registered tools in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Re-registering a name replaces the
// tool but keeps its original position.
func (r *Registry) Register(tool Tool) {
	name := tool.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns all registered tools in registration order.
func (r *Registry) All() []Tool {
	result := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// Execute looks up a tool and runs it. Unknown names come back as a
// not-found failure.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, domain.NewOpError(domain.FailureNotFound, "", "tool "+name,
			fmt.Errorf("unknown tool %q", name))
	}
	return tool.Execute(ctx, args)
}

// Describe lists every tool's name, description, and parameter schema.
func (r *Registry) Describe() []map[string]any {
	result := make([]map[string]any, 0, len(r.order))
	for _, tool := range r.All() {
		result = append(result, map[string]any{
			"name":        tool.Name(),
			"description": tool.Description(),
			"parameters":  tool.Parameters(),
		})
	}
	return result
}

// DefaultRegistry builds the registry with the full tool set.
func DefaultRegistry(deps *Deps) *Registry {
	r := NewRegistry()
	r.Register(&ListDevicesTool{deps: deps})
	r.Register(&ShowVersionTool{deps: deps})
	r.Register(&DiscoverNeighborsTool{deps: deps, protocol: domain.ProtocolCDP})
	r.Register(&DiscoverNeighborsTool{deps: deps, protocol: domain.ProtocolLLDP})
	r.Register(&DiscoverCombinedTool{deps: deps})
	r.Register(&DiscoverFleetTool{deps: deps})
	r.Register(&ProbeDeviceTool{deps: deps})
	r.Register(&RecentCommandsTool{deps: deps})
	return r
}
