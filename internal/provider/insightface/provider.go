package insightface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
)

// Provider implements provider.FaceProvider using the InsightFace sidecar
// service (ONNX buffalo_l detector + ArcFace embeddings).
type Provider struct {
	client *Client
}

// NewProvider creates a new InsightFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces detects faces in the image
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Embed(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Faces))
	for _, result := range resp.Faces {
		faces = append(faces, provider.DetectedFace{
			BoundingBox: bboxToBoundingBox(result.Bbox),
			Confidence:  result.DetScore,
		})
	}

	return faces, nil
}

// ExtractFaces detects all faces and returns each one's raw embedding.
// The sidecar returns embeddings as produced by the model, not normalized.
func (p *Provider) ExtractFaces(ctx context.Context, image []byte) ([]provider.FaceObservation, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Embed(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("extract faces: %w", err)
	}

	observations := make([]provider.FaceObservation, 0, len(resp.Faces))
	for _, result := range resp.Faces {
		if len(result.Embedding) == 0 {
			return nil, ErrEmptyEmbedding
		}

		// Local UUID as face ID (the sidecar does not persist faces)
		observations = append(observations, provider.FaceObservation{
			FaceID:      uuid.New().String(),
			BoundingBox: bboxToBoundingBox(result.Bbox),
			Embedding:   result.Embedding,
		})
	}

	return observations, nil
}

// CompareFaces calculates similarity between two embeddings.
// The sidecar has no comparison endpoint; cosine similarity is computed
// locally.
func (p *Provider) CompareFaces(ctx context.Context, embedding1, embedding2 []float64) (float64, error) {
	return CosineSimilarity(embedding1, embedding2), nil
}

func bboxToBoundingBox(b Bbox) provider.BoundingBox {
	return provider.BoundingBox{
		X:      b.X1,
		Y:      b.Y1,
		Width:  b.X2 - b.X1,
		Height: b.Y2 - b.Y1,
	}
}

// Ensure Provider implements provider.FaceProvider
var _ provider.FaceProvider = (*Provider)(nil)
