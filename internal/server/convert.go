package server

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zenml-io/mcp-zenml/internal/dispatch"
)

// toMCPSchema converts descriptor argument specs into the JSON schema shape
// the MCP protocol expects.
func toMCPSchema(specs []dispatch.ArgSpec) mcp.ToolInputSchema {
	properties := make(map[string]interface{}, len(specs))
	var required []string

	for _, spec := range specs {
		prop := map[string]interface{}{
			"type":        spec.Type,
			"description": spec.Description,
		}
		if spec.Default != nil {
			prop["default"] = spec.Default
		}
		if len(spec.Enum) > 0 {
			enum := make([]interface{}, len(spec.Enum))
			for i, v := range spec.Enum {
				enum[i] = v
			}
			prop["enum"] = enum
		}
		if spec.Minimum != nil {
			prop["minimum"] = *spec.Minimum
		}
		if spec.Maximum != nil {
			prop["maximum"] = *spec.Maximum
		}
		properties[spec.Name] = prop
		if spec.Required {
			required = append(required, spec.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// errorEnvelope is the protocol error payload. The taxonomy kind rides in
// "type" so callers can branch without parsing messages.
type errorEnvelope struct {
	Error struct {
		Tool    string `json:"tool"`
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// toMCPResult serializes a dispatch result into MCP content: the JSON payload
// on success, a structured error envelope (with the protocol error flag) on
// failure.
func toMCPResult(operation string, result *dispatch.Result) *mcp.CallToolResult {
	if !result.OK() {
		var envelope errorEnvelope
		envelope.Error.Tool = operation
		envelope.Error.Type = string(result.Kind)
		envelope.Error.Message = result.Message
		encoded, err := json.Marshal(envelope)
		if err != nil {
			return mcp.NewToolResultError(result.Message)
		}
		return mcp.NewToolResultError(string(encoded))
	}

	payload := result.Payload
	if result.Deprecation != "" {
		payload = annotateDeprecation(payload, result.Deprecation)
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		var envelope errorEnvelope
		envelope.Error.Tool = operation
		envelope.Error.Type = string(dispatch.KindUnexpected)
		envelope.Error.Message = "failed to serialize result payload"
		fallback, _ := json.Marshal(envelope)
		return mcp.NewToolResultError(string(fallback))
	}
	return mcp.NewToolResultText(string(encoded))
}

// annotateDeprecation injects the deprecation notice into the payload: as an
// extra field when the payload is a JSON object, wrapped otherwise.
func annotateDeprecation(payload any, notice string) any {
	encoded, err := json.Marshal(payload)
	if err == nil {
		var asObject map[string]any
		if json.Unmarshal(encoded, &asObject) == nil && asObject != nil {
			asObject["deprecation_notice"] = notice
			return asObject
		}
	}
	return map[string]any{
		"deprecation_notice": notice,
		"result":             payload,
	}
}
