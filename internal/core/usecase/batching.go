package usecase

import "github.com/vykhand/mydocs2/internal/core/domain"

// batchPages divides pages sorted by page number into overlapping
// windows. Consecutive windows share overlapFactor pages; the last
// window may be shorter but is never skipped.
func batchPages(pages []domain.Page, batchSize, overlapFactor int) [][]domain.Page {
	if len(pages) == 0 {
		return nil
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if overlapFactor < 0 {
		overlapFactor = 0
	}

	step := batchSize - overlapFactor
	if step < 1 {
		step = 1
	}

	var batches [][]domain.Page
	for start := 0; start < len(pages); start += step {
		end := start + batchSize
		if end > len(pages) {
			end = len(pages)
		}
		batches = append(batches, pages[start:end])
		if start+batchSize >= len(pages) {
			break
		}
	}
	return batches
}
