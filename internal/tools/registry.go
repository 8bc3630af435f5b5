// Package tools declares the traffic tools once, independent of the
// transport that exposes them.
package tools

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lucsky/cuid"
)

type ParamType string

const (
	ParamString ParamType = "string"
	ParamNumber ParamType = "number"
	ParamArray  ParamType = "array"
)

type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// Handler receives the raw argument object of one call.
type Handler func(ctx context.Context, args map[string]any) (string, error)

type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Result is the payload handed back to the client. Failures are text too,
// prefixed with "Error: " and flagged.
type Result struct {
	Text    string
	IsError bool
}

type Registry struct {
	tools   []Tool
	byName  map[string]int
	timeout time.Duration
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a tool. Registering the same name twice panics.
func (r *Registry) Register(t Tool) {
	if _, exists := r.byName[t.Name]; exists {
		panic(fmt.Sprintf("tool %s registered twice", t.Name))
	}
	r.byName[t.Name] = len(r.tools)
	r.tools = append(r.tools, t)
}

// SetTimeout bounds every call; zero or less means no limit.
func (r *Registry) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Tools lists the tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Call runs one tool invocation. It never returns a Go error: every
// failure is folded into the result text.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) Result {
	id := cuid.New()
	start := time.Now()

	tool, ok := r.Lookup(name)
	if !ok {
		log.Printf("[%s] unknown tool %s", id, name)
		return errorResult(fmt.Errorf("Unknown tool: %s", name))
	}
	if args == nil {
		args = map[string]any{}
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := tool.Handler(ctx, args)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("[%s] %s failed after %s: %v", id, name, elapsed, err)
		return errorResult(err)
	}
	log.Printf("[%s] %s completed in %s", id, name, elapsed)
	return Result{Text: text}
}

func errorResult(err error) Result {
	return Result{Text: "Error: " + err.Error(), IsError: true}
}
