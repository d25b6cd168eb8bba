package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// The backend's AI-derived payloads (evaluation, analysis) are the two
// responses where a malformed shape can silently corrupt client state, so
// they are checked against a strict schema before decoding.

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

var evaluateSchema = map[string]any{
	"type":     "object",
	"required": []any{"overall", "evaluation"},
	"properties": map[string]any{
		"overall": map[string]any{"type": "number"},
		"evaluation": map[string]any{
			"type": "object",
			"required": []any{
				"scores", "overall", "strengths", "gaps",
				"improvements", "model_answer", "next_drill_topic",
			},
			"properties": map[string]any{
				"scores": map[string]any{
					"type": "object",
					"required": []any{
						"correctness", "completeness", "clarity", "depth", "reasoning",
					},
					"additionalProperties": map[string]any{
						"type": "integer", "minimum": 0, "maximum": 5,
					},
				},
				"overall":          map[string]any{"type": "number", "minimum": 0, "maximum": 5},
				"strengths":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"gaps":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"improvements":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"model_answer":     map[string]any{"type": "string"},
				"next_drill_topic": map[string]any{"type": "string"},
			},
		},
	},
}

var analysisSchema = map[string]any{
	"type":     "object",
	"required": []any{"summary", "role_fit_score", "gap_report", "required_skills"},
	"properties": map[string]any{
		"summary":        map[string]any{"type": "string"},
		"role_fit_score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"ats_score":      map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"gap_report": map[string]any{
			"type":     "object",
			"required": []any{"missing_skills", "weak_skills", "focus_areas"},
		},
		"required_skills": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name", "importance"},
			},
		},
	},
}

func validateEvaluatePayload(raw json.RawMessage) error {
	return validatePayload("evaluate-response", evaluateSchema, raw)
}

func validateAnalysisPayload(raw json.RawMessage) error {
	return validatePayload("analysis-report", analysisSchema, raw)
}

// validatePayload checks raw against the named schema definition and
// returns *InvalidPayloadError on any mismatch.
func validatePayload(name string, definition map[string]any, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidPayloadError{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(name, definition)
	if err != nil {
		return &InvalidPayloadError{Content: raw, Err: fmt.Errorf("compile schema %q: %w", name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidPayloadError{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library wants a parsed JSON value, not Go maps with
	// typed slices. Round-trip through JSON to normalize.
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
