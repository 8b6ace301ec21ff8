package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

type splitDocRepoFake struct {
	doc    *domain.Document
	getErr error

	replaceErr      error
	replacedID      string
	replacedSubdocs []domain.SubDocument
	replacedMeta    domain.SplitRunMeta
	replaceCalls    int
}

func (f *splitDocRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *splitDocRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *splitDocRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}

func (f *splitDocRepoFake) ReplaceSubDocuments(_ context.Context, id string, subdocs []domain.SubDocument, meta domain.SplitRunMeta) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaceCalls++
	f.replacedID = id
	f.replacedSubdocs = subdocs
	f.replacedMeta = meta
	return nil
}

type splitPageRepoFake struct {
	pages []domain.Page
	err   error
}

func (f *splitPageRepoFake) ListByDocument(context.Context, string) ([]domain.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func (f *splitPageRepoFake) ReplacePages(context.Context, string, []domain.Page) error {
	return errors.New("not implemented")
}

type splitClassifierFake struct {
	results []domain.BatchClassification
	err     error
	calls   int
}

func (f *splitClassifierFake) ClassifyBatch(_ context.Context, _ string, batchNum, _ int, _ domain.ClassifierConfig) (domain.BatchClassification, error) {
	f.calls++
	if f.err != nil {
		return domain.BatchClassification{}, f.err
	}
	return f.results[batchNum-1], nil
}

type renderFake struct{}

func (renderFake) Render(pages []domain.Page, _ domain.ContentMode) string {
	var sb strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&sb, "p%d ", page.PageNumber)
	}
	return sb.String()
}

func splitPages(n int) []domain.Page {
	pages := make([]domain.Page, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, domain.Page{ID: fmt.Sprintf("page-%d", i), PageNumber: i})
	}
	return pages
}

func TestSplitAndClassifyPersistsSubDocuments(t *testing.T) {
	repo := &splitDocRepoFake{doc: &domain.Document{ID: "doc-1", FileSHA256: "abc"}}
	pages := &splitPageRepoFake{pages: splitPages(8)}
	classifier := &splitClassifierFake{results: []domain.BatchClassification{
		{Segments: []domain.Segment{{DocumentType: "invoice", PageNumbers: []int{1, 2, 3, 4, 5}}}},
		{Segments: []domain.Segment{{DocumentType: "invoice", PageNumbers: []int{4, 5, 6, 7, 8}}}},
	}}
	uc := NewSplitClassifyUseCase(repo, pages, classifier, renderFake{}, idsFake{})

	result, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{
		DocumentID: "doc-1",
		CaseType:   "tax_audit",
		Config:     domain.ClassifierConfig{BatchSize: 5, OverlapFactor: 2},
	})
	if err != nil {
		t.Fatalf("SplitAndClassify() error = %v", err)
	}
	if classifier.calls != 2 {
		t.Fatalf("expected 2 classified batches, got %d", classifier.calls)
	}
	if len(result.Segments) != 1 || len(result.Segments[0].PageNumbers) != 8 {
		t.Fatalf("expected one merged segment over 8 pages, got %+v", result.Segments)
	}
	if result.FromCache {
		t.Fatalf("expected fresh run, got cache hit")
	}
	if result.BatchesClassified != 2 {
		t.Fatalf("expected 2 batches recorded, got %d", result.BatchesClassified)
	}
	if repo.replaceCalls != 1 {
		t.Fatalf("expected one persistence call, got %d", repo.replaceCalls)
	}
	if repo.replacedID != "doc-1" {
		t.Fatalf("expected replacement for doc-1, got %s", repo.replacedID)
	}
	if len(repo.replacedSubdocs) != 1 || repo.replacedSubdocs[0].CaseType != "tax_audit" {
		t.Fatalf("unexpected persisted subdocuments: %+v", repo.replacedSubdocs)
	}
	if repo.replacedMeta.FileSHA256 != "abc" || repo.replacedMeta.CaseType != "tax_audit" {
		t.Fatalf("unexpected run meta: %+v", repo.replacedMeta)
	}
	if repo.replacedMeta.ConfigHash == "" {
		t.Fatalf("expected config hash recorded")
	}
}

func TestSplitAndClassifyCacheHitSkipsClassification(t *testing.T) {
	cfg := domain.ClassifierConfig{BatchSize: 5, OverlapFactor: 2}
	hash, err := domain.ConfigHash(normalizeClassifierConfig(cfg))
	if err != nil {
		t.Fatalf("hash config: %v", err)
	}

	repo := &splitDocRepoFake{doc: &domain.Document{
		ID:         "doc-1",
		FileSHA256: "abc",
		SubDocs: []domain.SubDocument{{
			ID:           "sub-1",
			CaseType:     "generic",
			DocumentType: "receipt",
			PageRefs:     []domain.SubDocumentPageRef{{PageNumber: 1}},
		}},
		SplitMeta: &domain.SplitRunMeta{
			FileSHA256:  "abc",
			ConfigHash:  hash,
			CaseType:    "generic",
			CompletedAt: time.Now().UTC(),
		},
	}}
	classifier := &splitClassifierFake{}
	uc := NewSplitClassifyUseCase(repo, &splitPageRepoFake{}, classifier, renderFake{}, idsFake{})

	result, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{
		DocumentID: "doc-1",
		CaseType:   "generic",
		Config:     cfg,
	})
	if err != nil {
		t.Fatalf("SplitAndClassify() error = %v", err)
	}
	if !result.FromCache {
		t.Fatalf("expected cache hit")
	}
	if classifier.calls != 0 {
		t.Fatalf("expected classifier untouched, got %d calls", classifier.calls)
	}
	if repo.replaceCalls != 0 {
		t.Fatalf("expected no persistence on cache hit")
	}
	if len(result.Segments) != 1 || result.Segments[0].DocumentType != "receipt" {
		t.Fatalf("expected cached segments returned, got %+v", result.Segments)
	}
}

func TestSplitAndClassifyForceBypassesCache(t *testing.T) {
	cfg := domain.ClassifierConfig{BatchSize: 5, OverlapFactor: 2}
	hash, err := domain.ConfigHash(normalizeClassifierConfig(cfg))
	if err != nil {
		t.Fatalf("hash config: %v", err)
	}

	repo := &splitDocRepoFake{doc: &domain.Document{
		ID:         "doc-1",
		FileSHA256: "abc",
		SubDocs:    []domain.SubDocument{{ID: "sub-old"}},
		SplitMeta:  &domain.SplitRunMeta{FileSHA256: "abc", ConfigHash: hash, CaseType: "generic"},
	}}
	classifier := &splitClassifierFake{results: []domain.BatchClassification{
		{Segments: []domain.Segment{{DocumentType: "receipt", PageNumbers: []int{1, 2}}}},
	}}
	uc := NewSplitClassifyUseCase(repo, &splitPageRepoFake{pages: splitPages(2)}, classifier, renderFake{}, idsFake{})

	result, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{
		DocumentID: "doc-1",
		CaseType:   "generic",
		Config:     cfg,
		Force:      true,
	})
	if err != nil {
		t.Fatalf("SplitAndClassify() error = %v", err)
	}
	if result.FromCache {
		t.Fatalf("expected forced rerun")
	}
	if classifier.calls == 0 {
		t.Fatalf("expected classifier invoked on force")
	}
	if repo.replaceCalls != 1 {
		t.Fatalf("expected replacement persisted, got %d calls", repo.replaceCalls)
	}
}

func TestSplitAndClassifyConfigChangeInvalidatesCache(t *testing.T) {
	repo := &splitDocRepoFake{doc: &domain.Document{
		ID:         "doc-1",
		FileSHA256: "abc",
		SubDocs:    []domain.SubDocument{{ID: "sub-old"}},
		SplitMeta:  &domain.SplitRunMeta{FileSHA256: "abc", ConfigHash: "stale-hash", CaseType: "generic"},
	}}
	classifier := &splitClassifierFake{results: []domain.BatchClassification{
		{Segments: []domain.Segment{{DocumentType: "receipt", PageNumbers: []int{1, 2}}}},
	}}
	uc := NewSplitClassifyUseCase(repo, &splitPageRepoFake{pages: splitPages(2)}, classifier, renderFake{}, idsFake{})

	result, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{
		DocumentID: "doc-1",
		CaseType:   "generic",
	})
	if err != nil {
		t.Fatalf("SplitAndClassify() error = %v", err)
	}
	if result.FromCache {
		t.Fatalf("expected stale cache rejected")
	}
	if classifier.calls == 0 {
		t.Fatalf("expected classifier invoked after config change")
	}
}

func TestSplitAndClassifyMissingDocumentYieldsEmptyResult(t *testing.T) {
	repo := &splitDocRepoFake{getErr: domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id doc-x"))}
	uc := NewSplitClassifyUseCase(repo, &splitPageRepoFake{}, &splitClassifierFake{}, renderFake{}, idsFake{})

	result, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{DocumentID: "doc-x"})
	if err != nil {
		t.Fatalf("expected nil error for missing document, got %v", err)
	}
	if len(result.Segments) != 0 || len(result.SubDocs) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestSplitAndClassifyNoPagesYieldsEmptyResult(t *testing.T) {
	repo := &splitDocRepoFake{doc: &domain.Document{ID: "doc-1", FileSHA256: "abc"}}
	classifier := &splitClassifierFake{}
	uc := NewSplitClassifyUseCase(repo, &splitPageRepoFake{}, classifier, renderFake{}, idsFake{})

	result, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("expected nil error for empty document, got %v", err)
	}
	if len(result.Segments) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if classifier.calls != 0 {
		t.Fatalf("expected no classification for empty document")
	}
	if repo.replaceCalls != 0 {
		t.Fatalf("expected no persistence for empty document")
	}
}

func TestSplitAndClassifyClassifierErrorAborts(t *testing.T) {
	repo := &splitDocRepoFake{doc: &domain.Document{ID: "doc-1", FileSHA256: "abc"}}
	classifier := &splitClassifierFake{err: domain.WrapError(domain.ErrTransport, "split classify", errors.New("boom"))}
	uc := NewSplitClassifyUseCase(repo, &splitPageRepoFake{pages: splitPages(3)}, classifier, renderFake{}, idsFake{})

	_, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{DocumentID: "doc-1"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTransport) {
		t.Fatalf("expected transport kind preserved, got %v", err)
	}
	if repo.replaceCalls != 0 {
		t.Fatalf("expected no partial persistence, got %d calls", repo.replaceCalls)
	}
}

func TestSplitAndClassifyPersistenceFailureSurfaces(t *testing.T) {
	repo := &splitDocRepoFake{
		doc:        &domain.Document{ID: "doc-1", FileSHA256: "abc"},
		replaceErr: errors.New("db down"),
	}
	classifier := &splitClassifierFake{results: []domain.BatchClassification{
		{Segments: []domain.Segment{{DocumentType: "receipt", PageNumbers: []int{1}}}},
	}}
	uc := NewSplitClassifyUseCase(repo, &splitPageRepoFake{pages: splitPages(1)}, classifier, renderFake{}, idsFake{})

	_, err := uc.SplitAndClassify(context.Background(), domain.SplitRequest{DocumentID: "doc-1"})
	if !domain.IsKind(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error kind, got %v", err)
	}
}
