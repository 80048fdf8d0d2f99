package match

import (
	"sort"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// GalleryEntry pairs an enrolled student's USN with their normalized
// reference embedding. USN uniqueness is not required; duplicates are
// harmless since only the best score per query matters.
type GalleryEntry struct {
	USN       string
	Embedding []float64
}

// Result is the outcome of matching one detected face against the gallery.
type Result struct {
	Matched bool
	USN     string
	Score   float64
}

// Report aggregates a full recognition run over one class photo.
// FacesSeen always equals UnmatchedCount plus the number of matched queries;
// MatchedUSNs is deduplicated, so it may be shorter than the matched count
// when the same student accounts for several faces.
type Report struct {
	FacesSeen      int
	UnmatchedCount int
	MatchedUSNs    []string
}

// FindBestMatch compares a raw query embedding against every gallery entry
// and accepts the highest cosine similarity when it reaches threshold.
//
// The query is normalized here; gallery embeddings are expected to be stored
// normalized at enrollment time. Scores are plain dot products of unit
// vectors, in [-1, 1]. Ties go to the earliest gallery entry (strict >
// update), and the threshold boundary is inclusive: a score exactly equal to
// threshold matches.
func FindBestMatch(query []float64, gallery []GalleryEntry, threshold float64) (Result, error) {
	if len(gallery) == 0 {
		return Result{}, domain.ErrEmptyGallery
	}

	q, err := Normalize(query)
	if err != nil {
		return Result{}, err
	}

	bestScore := -1.0
	bestUSN := ""

	for _, entry := range gallery {
		if len(entry.Embedding) != len(q) {
			return Result{}, domain.ErrDimensionMismatch
		}

		var score float64
		for i := range q {
			score += q[i] * entry.Embedding[i]
		}

		if score > bestScore {
			bestScore = score
			bestUSN = entry.USN
		}
	}

	if bestScore >= threshold {
		return Result{Matched: true, USN: bestUSN, Score: bestScore}, nil
	}

	return Result{Score: bestScore}, nil
}

// RunBatch matches every detected face in one photo against the gallery and
// folds the outcomes into a Report.
//
// Each query is matched independently; there is no one-to-one assignment
// between faces and students, so two faces may both resolve to the same USN
// and the deduplicated MatchedUSNs set absorbs it.
//
// Zero queries is a valid run (nobody in the photo) and yields a zero-valued
// report. Queries with an empty gallery is a caller configuration error and
// fails with domain.ErrEmptyGallery. The first degenerate query or dimension
// mismatch aborts the whole run.
func RunBatch(queries [][]float64, gallery []GalleryEntry, threshold float64) (Report, error) {
	report := Report{MatchedUSNs: []string{}}

	if len(queries) == 0 {
		return report, nil
	}

	if len(gallery) == 0 {
		return Report{}, domain.ErrEmptyGallery
	}

	seen := make(map[string]bool)

	for _, query := range queries {
		result, err := FindBestMatch(query, gallery, threshold)
		if err != nil {
			return Report{}, err
		}

		report.FacesSeen++
		if !result.Matched {
			report.UnmatchedCount++
			continue
		}

		if !seen[result.USN] {
			seen[result.USN] = true
			report.MatchedUSNs = append(report.MatchedUSNs, result.USN)
		}
	}

	// Deterministic output regardless of query order.
	sort.Strings(report.MatchedUSNs)

	return report, nil
}
