package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

// batchResultSchema describes the only payload shape the split
// classifier may return:
//
//	{"result": [{"document_type": "...", "page_numbers": [1, 2]}]}
var batchResultSchema = buildBatchResultSchema()

func buildBatchResultSchema() *openapi3.Schema {
	segment := openapi3.NewObjectSchema().
		WithProperty("document_type", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("page_numbers", openapi3.NewArraySchema().WithItems(openapi3.NewIntegerSchema()))
	segment.Required = []string{"document_type", "page_numbers"}

	root := openapi3.NewObjectSchema().
		WithProperty("result", openapi3.NewArraySchema().WithItems(segment))
	root.Required = []string{"result"}
	return root
}

func decodeBatchClassification(raw string) (domain.BatchClassification, error) {
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.BatchClassification{}, fmt.Errorf("parse classifier json: %w", err)
	}
	if err := batchResultSchema.VisitJSON(payload); err != nil {
		return domain.BatchClassification{}, fmt.Errorf("classifier payload schema: %w", err)
	}

	var result domain.BatchClassification
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return domain.BatchClassification{}, fmt.Errorf("decode classifier payload: %w", err)
	}
	return result, nil
}
