package usecase

import (
	"reflect"
	"testing"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

func makePages(numbers ...int) []domain.Page {
	pages := make([]domain.Page, 0, len(numbers))
	for _, n := range numbers {
		pages = append(pages, domain.Page{PageNumber: n})
	}
	return pages
}

func TestCentralityScore(t *testing.T) {
	if got := centralityScore(0, 1); got != 1.0 {
		t.Fatalf("single page window: expected 1.0, got %v", got)
	}
	if got := centralityScore(2, 5); got != 1.0 {
		t.Fatalf("center of 5: expected 1.0, got %v", got)
	}
	if got := centralityScore(0, 5); got != 0.0 {
		t.Fatalf("edge of 5: expected 0.0, got %v", got)
	}
	if got := centralityScore(1, 5); got != 0.5 {
		t.Fatalf("offset 1 of 5: expected 0.5, got %v", got)
	}
	if got := centralityScore(4, 5); got != 0.0 {
		t.Fatalf("far edge of 5: expected 0.0, got %v", got)
	}
}

func TestCombineKeepsSeparateDocumentsInOneBatch(t *testing.T) {
	batches := [][]domain.Page{makePages(1, 2, 3)}
	results := []domain.BatchClassification{{Segments: []domain.Segment{
		{DocumentType: "receipt", PageNumbers: []int{1}},
		{DocumentType: "receipt", PageNumbers: []int{2}},
		{DocumentType: "receipt", PageNumbers: []int{3}},
	}}}

	got := combineOverlappingResults(results, batches)
	want := []domain.Segment{
		{DocumentType: "receipt", PageNumbers: []int{1}},
		{DocumentType: "receipt", PageNumbers: []int{2}},
		{DocumentType: "receipt", PageNumbers: []int{3}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected three separate receipts, got %+v", got)
	}
}

func TestCombineMergesDocumentAcrossBatches(t *testing.T) {
	batches := [][]domain.Page{
		makePages(1, 2, 3, 4, 5),
		makePages(4, 5, 6, 7, 8),
	}
	results := []domain.BatchClassification{
		{Segments: []domain.Segment{{DocumentType: "invoice", PageNumbers: []int{1, 2, 3, 4, 5}}}},
		{Segments: []domain.Segment{{DocumentType: "invoice", PageNumbers: []int{4, 5, 6, 7, 8}}}},
	}

	got := combineOverlappingResults(results, batches)
	want := []domain.Segment{
		{DocumentType: "invoice", PageNumbers: []int{1, 2, 3, 4, 5, 6, 7, 8}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected one merged invoice, got %+v", got)
	}
}

func TestCombineKeepsSameTypeNeighboursApart(t *testing.T) {
	batches := [][]domain.Page{
		makePages(1, 2, 3, 4, 5),
		makePages(4, 5, 6, 7, 8),
	}
	results := []domain.BatchClassification{
		{Segments: []domain.Segment{
			{DocumentType: "receipt", PageNumbers: []int{1, 2, 3}},
			{DocumentType: "receipt", PageNumbers: []int{4, 5}},
		}},
		{Segments: []domain.Segment{
			{DocumentType: "receipt", PageNumbers: []int{4, 5}},
			{DocumentType: "invoice", PageNumbers: []int{6, 7, 8}},
		}},
	}

	got := combineOverlappingResults(results, batches)
	want := []domain.Segment{
		{DocumentType: "receipt", PageNumbers: []int{1, 2, 3}},
		{DocumentType: "receipt", PageNumbers: []int{4, 5}},
		{DocumentType: "invoice", PageNumbers: []int{6, 7, 8}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected receipt boundary preserved, got %+v", got)
	}
}

func TestCombineDropsClaimsOutsideBatchWindow(t *testing.T) {
	batches := [][]domain.Page{makePages(1, 2, 3)}
	results := []domain.BatchClassification{{Segments: []domain.Segment{
		{DocumentType: "letter", PageNumbers: []int{1, 2, 3, 9}},
	}}}

	got := combineOverlappingResults(results, batches)
	want := []domain.Segment{
		{DocumentType: "letter", PageNumbers: []int{1, 2, 3}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected out-of-window page 9 dropped, got %+v", got)
	}
}

func TestCombineTieBreakPrefersEarlierBatch(t *testing.T) {
	// Page 2 sits at the edge of both windows with score 0 each side.
	batches := [][]domain.Page{
		makePages(1, 2),
		makePages(2, 3),
	}
	results := []domain.BatchClassification{
		{Segments: []domain.Segment{{DocumentType: "invoice", PageNumbers: []int{1, 2}}}},
		{Segments: []domain.Segment{
			{DocumentType: "receipt", PageNumbers: []int{2}},
			{DocumentType: "letter", PageNumbers: []int{3}},
		}},
	}

	got := combineOverlappingResults(results, batches)
	if len(got) == 0 || got[0].DocumentType != "invoice" || !reflect.DeepEqual(got[0].PageNumbers, []int{1, 2}) {
		t.Fatalf("expected earlier batch to win the tie for page 2, got %+v", got)
	}
}

func TestCombineEmptyResults(t *testing.T) {
	if got := combineOverlappingResults(nil, nil); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}

	batches := [][]domain.Page{makePages(1, 2)}
	results := []domain.BatchClassification{{}}
	if got := combineOverlappingResults(results, batches); got != nil {
		t.Fatalf("expected nil when classifier returned no segments, got %+v", got)
	}
}
