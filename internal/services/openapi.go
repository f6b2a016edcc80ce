package services

import (
	"net/url"
	"sort"
	"strings"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
)

// SynthesizeSpecParams holds the minimal API information needed to derive
// an OpenAPI document. QueryParams, Headers, and BodySchema are loosely-typed
// JSON Schema fragments (objects with "properties" and "required").
type SynthesizeSpecParams struct {
	ToolName    string
	Method      string
	URL         string
	QueryParams map[string]interface{}
	Headers     map[string]interface{}
	BodySchema  map[string]interface{}
	Description string
}

// SynthesizeOpenAPISpec derives a minimal valid OpenAPI 3.0.3 document from
// method, URL, and schema fragments. The result has exactly one server, one
// path, and one operation, with a generic 200 JSON response. The function is
// pure and deterministic: identical inputs produce identical documents.
func SynthesizeOpenAPISpec(p SynthesizeSpecParams) (map[string]interface{}, error) {
	baseURL, path, err := splitURL(p.URL)
	if err != nil {
		return nil, err
	}

	method := strings.ToLower(p.Method)
	operationID := operationID(p.ToolName, path)

	parameters := make([]interface{}, 0)
	parameters = append(parameters, schemaToParameters(p.QueryParams, "query")...)
	parameters = append(parameters, schemaToParameters(p.Headers, "header")...)

	summary := p.Description
	if summary == "" {
		summary = strings.ToUpper(p.Method) + " " + path
	}

	operation := map[string]interface{}{
		"summary":     summary,
		"operationId": operationID,
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "Successful response",
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": map[string]interface{}{
							"type": "object",
						},
					},
				},
			},
		},
	}

	if len(parameters) > 0 {
		operation["parameters"] = parameters
	}

	if p.Description != "" {
		operation["description"] = p.Description
	}

	// Request bodies only apply to methods that carry one
	if p.BodySchema != nil && (method == "post" || method == "put" || method == "patch") {
		operation["requestBody"] = map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": p.BodySchema,
				},
			},
		}
	}

	description := p.Description
	if description == "" {
		description = "API spec for " + p.ToolName
	}

	spec := map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       p.ToolName,
			"description": description,
			"version":     "1.0.0",
		},
		"servers": []interface{}{
			map[string]interface{}{"url": baseURL},
		},
		"paths": map[string]interface{}{
			path: map[string]interface{}{
				method: operation,
			},
		},
	}

	return spec, nil
}

// splitURL separates a full URL into scheme+authority and path.
// The path defaults to "/" when absent.
func splitURL(raw string) (string, string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", "", apierrors.NewValidation("invalid API URL: %s", raw)
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	return parsed.Scheme + "://" + parsed.Host, path, nil
}

// operationID derives {tool_name}__{camelCasedPath}; "{tool_name}__root" when
// the path reduces to empty.
func operationID(toolName, path string) string {
	pathPart := strings.ReplaceAll(strings.Trim(path, "/"), "/", "_")
	if pathPart == "" {
		return toolName + "__root"
	}
	return toolName + "__" + toCamelCase(pathPart)
}

// toCamelCase converts an underscore/hyphen separated string to camelCase
func toCamelCase(s string) string {
	parts := strings.Split(strings.ReplaceAll(s, "-", "_"), "_")

	out := strings.ToLower(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		out += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return out
}

// schemaToParameters converts a JSON Schema fragment into OpenAPI parameter
// objects for the given location ("query" or "header"). Properties are
// emitted in sorted order so synthesis stays deterministic.
func schemaToParameters(schema map[string]interface{}, location string) []interface{} {
	if schema == nil {
		return nil
	}

	properties, _ := schema["properties"].(map[string]interface{})
	if len(properties) == 0 {
		return nil
	}

	required := map[string]bool{}
	if reqList, ok := schema["required"].([]interface{}); ok {
		for _, r := range reqList {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	parameters := make([]interface{}, 0, len(names))
	for _, name := range names {
		prop, _ := properties[name].(map[string]interface{})

		propType := "string"
		if t, ok := prop["type"].(string); ok && t != "" {
			propType = t
		}

		paramSchema := map[string]interface{}{"type": propType}
		if enum, ok := prop["enum"]; ok {
			paramSchema["enum"] = enum
		}

		param := map[string]interface{}{
			"name":     name,
			"in":       location,
			"required": required[name],
			"schema":   paramSchema,
		}
		if desc, ok := prop["description"].(string); ok && desc != "" {
			param["description"] = desc
		}

		parameters = append(parameters, param)
	}

	return parameters
}
