package usecase

import (
	"math"
	"sort"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

// pageTag records one batch's claim about a page: which per-batch
// segment covered it and how central the page sat in that batch's
// window. The (documentType, batchIndex, segmentIndex) triple
// identifies the claim's origin; two segments of one batch never share
// a segmentIndex.
type pageTag struct {
	documentType string
	batchIndex   int
	segmentIndex int
	score        float64
}

func sameOrigin(a, b pageTag) bool {
	return a.documentType == b.documentType &&
		a.batchIndex == b.batchIndex &&
		a.segmentIndex == b.segmentIndex
}

// centralityScore is 1.0 at the window center and falls off linearly
// to 0 at the edges. A single-page window always scores 1.0.
func centralityScore(idx, windowSize int) float64 {
	if windowSize <= 1 {
		return 1.0
	}
	mid := float64(windowSize-1) / 2.0
	return 1.0 - math.Abs(float64(idx)-mid)/mid
}

// combineOverlappingResults reconciles per-batch classifications of
// overlapping page windows into one non-overlapping ordered partition.
//
// Phase 1 tags every (page, batch) pair with the claiming segment and a
// centrality score; claims referencing pages outside the batch's own
// window are dropped. Phase 2 selects, per page, the tag with the
// highest score; exact ties go to the lower batchIndex, then the lower
// segmentIndex. Phase 3 walks pages in order and cuts a raw segment
// whenever the selected origin triple changes. Phase 4 stitches a raw
// segment onto its predecessor only when the types match and some
// single batch put both boundary pages in the same per-batch segment,
// so a document fragmented across a batch boundary rejoins while two
// distinct same-type documents stay separate.
func combineOverlappingResults(batchResults []domain.BatchClassification, batches [][]domain.Page) []domain.Segment {
	tags := tagPages(batchResults, batches)
	if len(tags) == 0 {
		return nil
	}

	pageNumbers := make([]int, 0, len(tags))
	for pn := range tags {
		pageNumbers = append(pageNumbers, pn)
	}
	sort.Ints(pageNumbers)

	selected := selectTags(tags)
	raws := buildRawSegments(pageNumbers, selected)
	return stitchSegments(raws, tags)
}

func tagPages(batchResults []domain.BatchClassification, batches [][]domain.Page) map[int][]pageTag {
	tags := make(map[int][]pageTag)
	for batchIdx, result := range batchResults {
		window := batches[batchIdx]
		position := make(map[int]int, len(window))
		for i, page := range window {
			position[page.PageNumber] = i
		}

		for segIdx, segment := range result.Segments {
			for _, pn := range segment.PageNumbers {
				idx, ok := position[pn]
				if !ok {
					// Classifier referenced a page outside its own window.
					continue
				}
				tags[pn] = append(tags[pn], pageTag{
					documentType: segment.DocumentType,
					batchIndex:   batchIdx,
					segmentIndex: segIdx,
					score:        centralityScore(idx, len(window)),
				})
			}
		}
	}
	return tags
}

func selectTags(tags map[int][]pageTag) map[int]pageTag {
	selected := make(map[int]pageTag, len(tags))
	for pn, candidates := range tags {
		best := candidates[0]
		for _, cand := range candidates[1:] {
			if betterTag(cand, best) {
				best = cand
			}
		}
		selected[pn] = best
	}
	return selected
}

// betterTag prefers the higher centrality score; exact ties go to the
// lower batchIndex, then the lower segmentIndex.
func betterTag(a, b pageTag) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.batchIndex != b.batchIndex {
		return a.batchIndex < b.batchIndex
	}
	return a.segmentIndex < b.segmentIndex
}

type rawSegment struct {
	tag         pageTag
	pageNumbers []int
}

func buildRawSegments(pageNumbers []int, selected map[int]pageTag) []rawSegment {
	var raws []rawSegment
	for _, pn := range pageNumbers {
		tag := selected[pn]
		if len(raws) > 0 && sameOrigin(raws[len(raws)-1].tag, tag) {
			raws[len(raws)-1].pageNumbers = append(raws[len(raws)-1].pageNumbers, pn)
			continue
		}
		raws = append(raws, rawSegment{tag: tag, pageNumbers: []int{pn}})
	}
	return raws
}

func stitchSegments(raws []rawSegment, tags map[int][]pageTag) []domain.Segment {
	var finals []domain.Segment
	lastPage := 0
	for _, raw := range raws {
		first := raw.pageNumbers[0]
		if len(finals) > 0 {
			prev := &finals[len(finals)-1]
			if prev.DocumentType == raw.tag.documentType && sharesSegmentOrigin(tags[lastPage], tags[first]) {
				prev.PageNumbers = append(prev.PageNumbers, raw.pageNumbers...)
				lastPage = raw.pageNumbers[len(raw.pageNumbers)-1]
				continue
			}
		}
		finals = append(finals, domain.Segment{
			DocumentType: raw.tag.documentType,
			PageNumbers:  append([]int(nil), raw.pageNumbers...),
		})
		lastPage = raw.pageNumbers[len(raw.pageNumbers)-1]
	}
	return finals
}

// sharesSegmentOrigin reports whether any single batch classified both
// boundary pages as the same per-batch segment. All recorded tags
// participate, not only the selected ones.
func sharesSegmentOrigin(a, b []pageTag) bool {
	for _, ta := range a {
		for _, tb := range b {
			if sameOrigin(ta, tb) {
				return true
			}
		}
	}
	return false
}
