package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
)

const (
	defaultBatchSize         = 12
	defaultOverlapFactor     = 3
	defaultValidationRetries = 3
	defaultTransportRetries  = 3
)

// SplitClassifyUseCase partitions a multi-document file into typed
// sub-documents. It classifies overlapping page batches through the
// classifier port, reconciles them into one partition and persists the
// result, skipping classification entirely when neither file content
// nor classifier config changed since the last successful run.
type SplitClassifyUseCase struct {
	docs       ports.DocumentRepository
	pages      ports.PageRepository
	classifier ports.BatchClassifier
	renderer   ports.ContextRenderer
	ids        ports.IDGenerator
}

func NewSplitClassifyUseCase(
	docs ports.DocumentRepository,
	pages ports.PageRepository,
	classifier ports.BatchClassifier,
	renderer ports.ContextRenderer,
	ids ports.IDGenerator,
) *SplitClassifyUseCase {
	return &SplitClassifyUseCase{
		docs:       docs,
		pages:      pages,
		classifier: classifier,
		renderer:   renderer,
		ids:        ids,
	}
}

func (uc *SplitClassifyUseCase) SplitAndClassify(ctx context.Context, req domain.SplitRequest) (*domain.SplitResult, error) {
	cfg := normalizeClassifierConfig(req.Config)
	caseType := req.CaseType
	if caseType == "" {
		caseType = "generic"
	}
	mode := req.ContentMode
	if mode == "" {
		mode = domain.ContentModeMarkdown
	}

	doc, err := uc.docs.GetByID(ctx, req.DocumentID)
	if err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			slog.Warn("split_classify_document_missing", "document_id", req.DocumentID)
			return &domain.SplitResult{}, nil
		}
		return nil, fmt.Errorf("load document: %w", err)
	}

	configHash, err := domain.ConfigHash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash classifier config: %w", err)
	}

	if !req.Force && cachedRunMatches(doc, configHash, caseType) {
		slog.Info("split_classify_cache_hit",
			"document_id", doc.ID,
			"subdocuments", len(doc.SubDocs),
		)
		return &domain.SplitResult{
			Segments:  segmentsFromSubDocuments(doc.SubDocs),
			SubDocs:   doc.SubDocs,
			FromCache: true,
		}, nil
	}

	pages, err := uc.pages.ListByDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("fetch pages: %w", err)
	}
	if len(pages) == 0 {
		slog.Warn("split_classify_no_pages", "document_id", req.DocumentID)
		return &domain.SplitResult{}, nil
	}

	batches := batchPages(pages, cfg.BatchSize, cfg.OverlapFactor)
	results := make([]domain.BatchClassification, 0, len(batches))
	for i, batch := range batches {
		contextText := uc.renderer.Render(batch, mode)
		result, err := uc.classifier.ClassifyBatch(ctx, contextText, i+1, len(batches), cfg)
		if err != nil {
			return nil, fmt.Errorf("classify batch %d/%d: %w", i+1, len(batches), err)
		}
		results = append(results, result)
	}

	segments := combineOverlappingResults(results, batches)
	subdocs := buildSubDocuments(uc.ids, doc.ID, caseType, segments, pages)

	meta := domain.SplitRunMeta{
		FileSHA256:  doc.FileSHA256,
		ConfigHash:  configHash,
		CaseType:    caseType,
		CompletedAt: time.Now().UTC(),
	}
	if err := uc.docs.ReplaceSubDocuments(ctx, doc.ID, subdocs, meta); err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "replace subdocuments", err)
	}

	slog.Info("split_classify_done",
		"document_id", doc.ID,
		"pages", len(pages),
		"batches", len(batches),
		"segments", len(segments),
	)
	return &domain.SplitResult{
		Segments:          segments,
		SubDocs:           subdocs,
		BatchesClassified: len(batches),
	}, nil
}

// cachedRunMatches reports whether the document already carries
// sub-documents produced from identical file content, classifier config
// and case type.
func cachedRunMatches(doc *domain.Document, configHash, caseType string) bool {
	return len(doc.SubDocs) > 0 &&
		doc.SplitMeta != nil &&
		doc.SplitMeta.FileSHA256 == doc.FileSHA256 &&
		doc.SplitMeta.ConfigHash == configHash &&
		doc.SplitMeta.CaseType == caseType
}

func segmentsFromSubDocuments(subdocs []domain.SubDocument) []domain.Segment {
	segments := make([]domain.Segment, 0, len(subdocs))
	for _, sd := range subdocs {
		pageNumbers := make([]int, 0, len(sd.PageRefs))
		for _, ref := range sd.PageRefs {
			pageNumbers = append(pageNumbers, ref.PageNumber)
		}
		segments = append(segments, domain.Segment{
			DocumentType: sd.DocumentType,
			PageNumbers:  pageNumbers,
		})
	}
	return segments
}

func normalizeClassifierConfig(cfg domain.ClassifierConfig) domain.ClassifierConfig {
	out := cfg
	if out.BatchSize <= 0 {
		out.BatchSize = defaultBatchSize
	}
	if out.OverlapFactor <= 0 {
		out.OverlapFactor = defaultOverlapFactor
	}
	if out.ValidationRetries <= 0 {
		out.ValidationRetries = defaultValidationRetries
	}
	if out.TransportRetries <= 0 {
		out.TransportRetries = defaultTransportRetries
	}
	return out
}
