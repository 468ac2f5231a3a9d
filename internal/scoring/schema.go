package scoring

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed scorecard.schema.json
var scoreCardSchema string

// ValidateScoreJSON validates a raw oracle response against the score card
// JSON Schema. A violation is a contract breach by the oracle, reported as
// a ResponseInvalidError by the caller.
func ValidateScoreJSON(jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(scoreCardSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	for i, desc := range result.Errors() {
		if i > 0 {
			sb.WriteString("; ")
		}
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		sb.WriteString(fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return fmt.Errorf("%s", sb.String())
}
