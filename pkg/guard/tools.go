package guard

// ToolDef is a minimal tool definition extracted from a server's tool
// schema. It is descriptive only; nothing here is executable.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
	Placeholder bool           `json:"is_placeholder,omitempty"`
}

// ToolsFromSchema extracts tool definitions from a decoded tool schema,
// best-effort. Entries without a name, or of the wrong shape, are
// skipped rather than reported.
func ToolsFromSchema(schema map[string]any) []ToolDef {
	rawTools, ok := schema["tools"].([]any)
	if !ok {
		return nil
	}

	var defs []ToolDef
	for _, raw := range rawTools {
		tool, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := tool["name"].(string)
		if name == "" {
			continue
		}
		description, _ := tool["description"].(string)
		input, _ := tool["inputSchema"].(map[string]any)
		if input == nil {
			input, _ = tool["input_schema"].(map[string]any)
		}
		if input == nil {
			input = map[string]any{}
		}
		defs = append(defs, ToolDef{
			Name:        name,
			Description: description,
			InputSchema: input,
		})
	}
	return defs
}

// PlaceholderTool returns a named placeholder definition with an empty
// object input schema.
func PlaceholderTool(name, description string) ToolDef {
	return ToolDef{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Placeholder: true,
	}
}
