package domain

// Segment is a claim that a contiguous run of page numbers forms one
// logical sub-document of the given type. The classifier emits them per
// batch; the merger emits the final reconciled set.
type Segment struct {
	DocumentType string `json:"document_type"`
	PageNumbers  []int  `json:"page_numbers"`
}

// BatchClassification is the validated classifier payload for a single
// page batch.
type BatchClassification struct {
	Segments []Segment `json:"result"`
}

// SplitRequest carries the inputs of one split-and-classify
// invocation. Force bypasses the idempotency gate.
type SplitRequest struct {
	DocumentID  string           `json:"document_id"`
	Config      ClassifierConfig `json:"-"`
	ContentMode ContentMode      `json:"content_mode"`
	CaseType    string           `json:"case_type"`
	Force       bool             `json:"force"`
}

// SplitResult is the outcome of a split-and-classify invocation.
// FromCache reports that the previous result was returned without
// calling the classifier.
type SplitResult struct {
	Segments          []Segment     `json:"segments"`
	SubDocs           []SubDocument `json:"subdocuments"`
	FromCache         bool          `json:"from_cache"`
	BatchesClassified int           `json:"batches_classified"`
}

// ClassifierConfig parameterizes the split classifier. Its canonical
// hash participates in the idempotency gate, so every field here forces
// reclassification when changed.
type ClassifierConfig struct {
	Name               string `json:"name" yaml:"name"`
	Model              string `json:"model" yaml:"model"`
	SysPromptTemplate  string `json:"sys_prompt_template" yaml:"sys_prompt_template"`
	UserPromptTemplate string `json:"user_prompt_template" yaml:"user_prompt_template"`
	ValidationRetries  int    `json:"validation_retries" yaml:"validation_retries"`
	TransportRetries   int    `json:"transport_retries" yaml:"transport_retries"`
	BatchSize          int    `json:"batch_size" yaml:"batch_size"`
	OverlapFactor      int    `json:"overlap_factor" yaml:"overlap_factor"`
}
