package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gastosbot/receipts-engine/internal/common"
)

// RawFields is a model reply decoded to a generic object, keys verified but
// values not yet coerced.
type RawFields map[string]any

var (
	reFenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	reFenceClose = regexp.MustCompile("\\s*```$")
	// first single-level brace group; vision models sometimes wrap the JSON
	// in prose despite the prompt
	reBraceGroup = regexp.MustCompile(`\{[^{}]*\}`)
)

// ParseReply turns a raw model reply into RawFields. Markdown code fences are
// stripped, then the first {...} group is extracted if extra text remains.
// A reply with no decodable JSON object fails with ErrMalformedReply; a JSON
// object missing any required key fails with ErrSchemaViolation, never a
// silent default.
func ParseReply(reply string) (RawFields, error) {
	content := strings.TrimSpace(reply)
	if strings.HasPrefix(content, "```") {
		content = reFenceOpen.ReplaceAllString(content, "")
		content = reFenceClose.ReplaceAllString(content, "")
		content = strings.TrimSpace(content)
	}
	if m := reBraceGroup.FindString(content); m != "" {
		content = m
	}

	var fields RawFields
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedReply, err)
	}

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedReply, err)
	}
	if err := replySchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSchemaViolation, err)
	}
	return fields, nil
}
