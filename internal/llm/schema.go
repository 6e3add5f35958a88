package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildReplySchema returns the JSON-Schema for a model reply. Only presence
// of the five required keys is enforced here; type coercion and range checks
// belong to Normalize, which reports them with finer-grained errors.
func buildReplySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount":     map[string]any{},
			"date":       map[string]any{},
			"title":      map[string]any{},
			"category":   map[string]any{},
			"confidence": map[string]any{},
		},
		"required": []string{"amount", "date", "title", "category", "confidence"},
	}
}

var replySchema = mustCompileSchema(buildReplySchema())

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal reply schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("reply.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add reply schema: %v", err))
	}
	schema, err := compiler.Compile("reply.json")
	if err != nil {
		panic(fmt.Sprintf("compile reply schema: %v", err))
	}
	return schema
}
