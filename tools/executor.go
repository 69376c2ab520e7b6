// Package tools provides a registry of callable tools and the machinery to
// validate and execute a model's ToolCall against them, grounded on
// cogni-tools' ToolExecutor/ToolRegistry.
package tools

import (
	"context"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/jkhoffman/cogni/core"
)

// Func is the business logic behind a tool: it receives the call's
// arguments as raw JSON (already validated against the tool's schema, if
// any) and returns either raw JSON, which becomes the ToolResult's content
// as-is, or an error.
type Func func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Executor pairs a core.Tool definition with the Func that implements it
// and, optionally, a compiled JSON Schema used to validate a call's
// arguments before Func ever sees them.
type Executor struct {
	Tool   core.Tool
	Func   Func
	schema *jsonschema.Schema
}

// NewExecutor builds an Executor. If tool.Function.Parameters is a
// non-empty JSON Schema, it is compiled once up front so Execute can
// validate every call cheaply; a schema compile failure is returned
// immediately rather than deferred to the first call.
func NewExecutor(tool core.Tool, fn Func) (*Executor, error) {
	e := &Executor{Tool: tool, Func: fn}
	if len(tool.Function.Parameters) == 0 {
		return e, nil
	}
	compiler := jsonschema.NewCompiler()
	var schemaDoc any
	if err := json.Unmarshal(tool.Function.Parameters, &schemaDoc); err != nil {
		return nil, core.NewSerializationError("tools: invalid parameters schema for "+tool.Name, err)
	}
	const resourceURL = "mem://" + "schema.json"
	if err := compiler.AddResource(resourceURL, schemaDoc); err != nil {
		return nil, core.NewError(core.ErrValidation, "tools: "+tool.Name+": "+err.Error())
	}
	schema, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, core.NewError(core.ErrValidation, "tools: "+tool.Name+": "+err.Error())
	}
	e.schema = schema
	return e, nil
}

// Validate checks args against the tool's schema, if one was supplied. A
// tool with no schema accepts any arguments.
func (e *Executor) Validate(args json.RawMessage) error {
	if e.schema == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return core.NewSerializationError("tools: "+e.Tool.Name+": invalid arguments JSON", err)
	}
	if err := e.schema.Validate(v); err != nil {
		return core.NewError(core.ErrValidation, "tools: "+e.Tool.Name+": "+err.Error())
	}
	return nil
}

// Execute validates call.Arguments (if a schema is present) and runs Func,
// translating the outcome into a core.ToolResult. A tool failure — bad
// arguments or Func returning an error — becomes ToolResult{Success:
// false}, never a core.Error: a tool failing is a normal conversational
// event the model should see and can recover from, not a framework fault.
func (e *Executor) Execute(ctx context.Context, call core.ToolCall) core.ToolResult {
	args := json.RawMessage(call.Arguments)
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := e.Validate(args); err != nil {
		return core.ErrorResult(call.ID, err.Error())
	}
	out, err := e.Func(ctx, args)
	if err != nil {
		return core.ErrorResult(call.ID, err.Error())
	}
	return core.SuccessResult(call.ID, string(out))
}
