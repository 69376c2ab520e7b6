// Package structured validates a provider Response's content against a
// requested JSON Schema, grounded on cogni-core/src/types/structured.rs's
// StructuredOutput trait and ResponseFormat sum type (already represented in
// Go as core.ResponseFormat).
package structured

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/jkhoffman/cogni/core"
)

// Output is the Go analogue of StructuredOutput: a type that can describe
// its own expected shape as a JSON Schema, used to build a request's
// ResponseFormat and to decode and validate the eventual Response.
type Output interface {
	Schema() json.RawMessage
}

// FormatFor builds the JSONSchemaFormat a Request should set to ask a
// provider for output matching o's schema.
func FormatFor(o Output, strict bool) core.ResponseFormat {
	return core.JSONSchemaFormat{Schema: o.Schema(), Strict: strict}
}

// Validate compiles schema and validates data against it, returning a
// core.Error{Kind: Validation} on any schema-compile or validation failure.
func Validate(schema, data json.RawMessage) error {
	var schemaDoc any
	if err := json.Unmarshal(schema, &schemaDoc); err != nil {
		return core.NewSerializationError("structured: invalid schema document", err)
	}
	compiler := jsonschema.NewCompiler()
	const resourceURL = "mem://structured-output.json"
	if err := compiler.AddResource(resourceURL, schemaDoc); err != nil {
		return core.NewError(core.ErrValidation, "structured: "+err.Error())
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return core.NewError(core.ErrValidation, "structured: "+err.Error())
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return core.NewSerializationError("structured: response content is not valid JSON", err)
	}
	if err := compiled.Validate(v); err != nil {
		return core.NewError(core.ErrValidation, "structured: response does not match schema: "+err.Error())
	}
	return nil
}

// ValidateResponse validates resp.Content against format when format is a
// JSONSchemaFormat with Strict set. Any other ResponseFormat (JsonObject, or
// JsonSchema with strict:false) is left unvalidated, matching the Rust
// source: only the synthetic tool-forcing workaround's own input schema is
// ever enforced, never a model's free-form JSON.
func ValidateResponse(format core.ResponseFormat, resp core.Response) error {
	jsf, ok := format.(core.JSONSchemaFormat)
	if !ok || !jsf.Strict {
		return nil
	}
	return Validate(jsf.Schema, json.RawMessage(resp.Content))
}

// Decode unmarshals resp.Content into a value of type T, validating it
// against o's schema first if strict is true.
func Decode[T any](o Output, resp core.Response, strict bool) (T, error) {
	var out T
	if strict {
		if err := Validate(o.Schema(), json.RawMessage(resp.Content)); err != nil {
			return out, err
		}
	}
	if err := json.Unmarshal([]byte(resp.Content), &out); err != nil {
		return out, core.NewSerializationError("structured: decoding response content", err)
	}
	return out, nil
}
