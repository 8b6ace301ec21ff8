package usecase

import (
	"strings"
	"testing"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

type idsFake struct{}

func (idsFake) CompositeID(parts ...string) string { return strings.Join(parts, "/") }

func TestBuildSubDocumentsDeterministicIDs(t *testing.T) {
	pages := []domain.Page{
		{ID: "p1", PageNumber: 1},
		{ID: "p2", PageNumber: 2},
		{ID: "p3", PageNumber: 3},
	}
	segments := []domain.Segment{
		{DocumentType: "receipt", PageNumbers: []int{1, 2}},
		{DocumentType: "invoice", PageNumbers: []int{3}},
	}

	subdocs := buildSubDocuments(idsFake{}, "doc-1", "tax_audit", segments, pages)
	if len(subdocs) != 2 {
		t.Fatalf("expected 2 subdocuments, got %d", len(subdocs))
	}
	if subdocs[0].ID != "doc-1/tax_audit/receipt/1" {
		t.Fatalf("unexpected id: %s", subdocs[0].ID)
	}
	if subdocs[1].ID != "doc-1/tax_audit/invoice/3" {
		t.Fatalf("unexpected id: %s", subdocs[1].ID)
	}
	if subdocs[0].PageRefs[1].PageID != "p2" {
		t.Fatalf("expected page ref p2, got %+v", subdocs[0].PageRefs)
	}
}

func TestBuildSubDocumentsDropsUnknownPages(t *testing.T) {
	pages := []domain.Page{{ID: "p1", PageNumber: 1}}
	segments := []domain.Segment{
		{DocumentType: "receipt", PageNumbers: []int{1, 7}},
		{DocumentType: "invoice", PageNumbers: []int{9}},
	}

	subdocs := buildSubDocuments(idsFake{}, "doc-1", "generic", segments, pages)
	if len(subdocs) != 1 {
		t.Fatalf("expected empty segment dropped, got %d subdocuments", len(subdocs))
	}
	if len(subdocs[0].PageRefs) != 1 || subdocs[0].PageRefs[0].PageNumber != 1 {
		t.Fatalf("expected only resolvable page kept, got %+v", subdocs[0].PageRefs)
	}
}

func TestBuildSubDocumentsIDUsesMinPage(t *testing.T) {
	pages := []domain.Page{
		{ID: "p4", PageNumber: 4},
		{ID: "p5", PageNumber: 5},
	}
	segments := []domain.Segment{
		{DocumentType: "contract", PageNumbers: []int{5, 4}},
	}

	subdocs := buildSubDocuments(idsFake{}, "doc-1", "generic", segments, pages)
	if len(subdocs) != 1 {
		t.Fatalf("expected 1 subdocument, got %d", len(subdocs))
	}
	if subdocs[0].ID != "doc-1/generic/contract/4" {
		t.Fatalf("expected id anchored at min page, got %s", subdocs[0].ID)
	}
}
