package provider

import "context"

// FaceProvider is the embedding source the recognition engine depends on.
// Implementations detect faces in an image and extract the raw (un-normalized)
// embedding vector of each one.
type FaceProvider interface {
	// DetectFaces detects faces in the image without extracting embeddings
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)

	// ExtractFaces detects every face in the image and returns its raw
	// embedding. Order follows detection order. An image with no faces
	// returns an empty slice, not an error.
	ExtractFaces(ctx context.Context, image []byte) ([]FaceObservation, error)

	// CompareFaces calculates cosine similarity between two embeddings.
	// Returns a value between -1.0 (opposite) and 1.0 (identical).
	CompareFaces(ctx context.Context, embedding1, embedding2 []float64) (similarity float64, err error)
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// FaceObservation pairs a detected face with its raw embedding vector.
// The embedding is as produced by the extractor; callers normalize it before
// any similarity comparison.
type FaceObservation struct {
	FaceID      string      `json:"face_id"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Embedding   []float64   `json:"-"`
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
