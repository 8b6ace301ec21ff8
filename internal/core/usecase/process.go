package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
)

// ProcessDocumentUseCase drives the asynchronous pipeline for a newly
// ingested document: extract pages, persist them, then split and
// classify with the service-wide classifier config.
type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	pages     ports.PageRepository
	extractor ports.PageExtractor
	splitter  ports.DocumentSplitter

	classifierCfg domain.ClassifierConfig
	caseType      string
	contentMode   domain.ContentMode
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	pages ports.PageRepository,
	extractor ports.PageExtractor,
	splitter ports.DocumentSplitter,
	classifierCfg domain.ClassifierConfig,
	caseType string,
	contentMode domain.ContentMode,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:          repo,
		pages:         pages,
		extractor:     extractor,
		splitter:      splitter,
		classifierCfg: classifierCfg,
		caseType:      caseType,
		contentMode:   contentMode,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) (*domain.SplitResult, error) {
	if err := uc.markStatus(ctx, documentID, domain.StatusParsing, ""); err != nil {
		return nil, fmt.Errorf("set status=parsing: %w", err)
	}

	result, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return nil, err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return nil, fmt.Errorf("set status=ready: %w", err)
	}
	return result, nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (*domain.SplitResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	pages, err := uc.extractor.ExtractPages(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract pages", errors.New("no pages extracted"))
	}

	if err := uc.pages.ReplacePages(ctx, doc.ID, pages); err != nil {
		return nil, fmt.Errorf("store pages: %w", err)
	}

	result, err := uc.splitter.SplitAndClassify(ctx, domain.SplitRequest{
		DocumentID:  doc.ID,
		Config:      uc.classifierCfg,
		ContentMode: uc.contentMode,
		CaseType:    uc.caseType,
	})
	if err != nil {
		return nil, fmt.Errorf("split and classify: %w", err)
	}
	return result, nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
