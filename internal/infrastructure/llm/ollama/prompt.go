package ollama

import (
	"strconv"
	"strings"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

const defaultSysPrompt = `You are a document splitting assistant.
A multi-page file may contain several distinct documents (receipts, invoices, contracts, letters).
Group the pages into contiguous segments, one segment per logical document, and classify each segment.
Return strict JSON object with a single key "result": an array of objects with keys
document_type (string) and page_numbers (array of integers).
Use only page numbers that appear in the provided context. No markdown, no extra keys.`

const defaultUserPromptTemplate = `This is batch {batch_num} of {total_batches}. Consecutive batches overlap,
so pages at the edges of this batch may belong to documents continuing in neighbouring batches.

Pages:
{context}`

// renderUserPrompt fills the user template placeholders. Unknown
// placeholders are left untouched so config mistakes stay visible.
func renderUserPrompt(cfg domain.ClassifierConfig, contextText string, batchNum, totalBatches int) string {
	tmpl := cfg.UserPromptTemplate
	if tmpl == "" {
		tmpl = defaultUserPromptTemplate
	}
	return strings.NewReplacer(
		"{context}", contextText,
		"{batch_num}", strconv.Itoa(batchNum),
		"{total_batches}", strconv.Itoa(totalBatches),
	).Replace(tmpl)
}
