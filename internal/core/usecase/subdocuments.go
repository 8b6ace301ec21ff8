package usecase

import (
	"strconv"
	"time"

	"github.com/vykhand/mydocs2/internal/core/domain"
	"github.com/vykhand/mydocs2/internal/core/ports"
)

// buildSubDocuments maps final segments onto persisted sub-document
// entities. Page numbers that resolve to no known page are dropped, as
// are segments left without pages. Ids are deterministic over
// (document, case type, document type, first page) so an identical
// rerun produces identical entities.
func buildSubDocuments(
	ids ports.IDGenerator,
	documentID, caseType string,
	segments []domain.Segment,
	pages []domain.Page,
) []domain.SubDocument {
	pageByNumber := make(map[int]domain.Page, len(pages))
	for _, page := range pages {
		pageByNumber[page.PageNumber] = page
	}

	now := time.Now().UTC()
	var subdocs []domain.SubDocument
	for _, segment := range segments {
		var refs []domain.SubDocumentPageRef
		for _, pn := range segment.PageNumbers {
			page, ok := pageByNumber[pn]
			if !ok {
				continue
			}
			refs = append(refs, domain.SubDocumentPageRef{
				DocumentID: documentID,
				PageID:     page.ID,
				PageNumber: pn,
			})
		}
		if len(refs) == 0 {
			continue
		}

		minPage := refs[0].PageNumber
		for _, ref := range refs[1:] {
			if ref.PageNumber < minPage {
				minPage = ref.PageNumber
			}
		}

		subdocs = append(subdocs, domain.SubDocument{
			ID:           ids.CompositeID(documentID, caseType, segment.DocumentType, strconv.Itoa(minPage)),
			CaseType:     caseType,
			DocumentType: segment.DocumentType,
			PageRefs:     refs,
			CreatedAt:    now,
		})
	}
	return subdocs
}
