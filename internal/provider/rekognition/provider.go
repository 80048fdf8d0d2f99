package rekognition

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
)

// Provider implements the provider.FaceProvider interface using AWS
// Rekognition. Rekognition never exposes raw embedding vectors, so this
// provider covers detection and image-to-image comparison only; attendance
// recognition (which needs embeddings) requires the InsightFace provider.
type Provider struct {
	client *Client
}

// Ensure Provider implements provider.FaceProvider interface at compile time
var _ provider.FaceProvider = (*Provider)(nil)

// NewProvider creates a new Rekognition provider
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}

	return &Provider{client: client}, nil
}

// newProviderWithAPI builds a Provider around a pre-built API, for tests
func newProviderWithAPI(api API, cfg Config) *Provider {
	return &Provider{client: &Client{rekognition: api, config: cfg}}
}

// DetectFaces detects faces in an image using the AWS Rekognition DetectFaces API.
// Returns an empty slice if no faces are detected (not an error).
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(image); err != nil {
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := p.client.rekognition.DetectFaces(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", classifyAPIError(err))
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		face := provider.DetectedFace{}
		if detail.BoundingBox != nil {
			face.BoundingBox = provider.BoundingBox{
				X:      float64(aws.ToFloat32(detail.BoundingBox.Left)),
				Y:      float64(aws.ToFloat32(detail.BoundingBox.Top)),
				Width:  float64(aws.ToFloat32(detail.BoundingBox.Width)),
				Height: float64(aws.ToFloat32(detail.BoundingBox.Height)),
			}
		}
		face.Confidence = float64(aws.ToFloat32(detail.Confidence)) / 100.0
		faces = append(faces, face)
	}

	return faces, nil
}

// ExtractFaces is not supported: Rekognition keeps embeddings inside its
// managed collections and never returns the vectors.
func (p *Provider) ExtractFaces(ctx context.Context, image []byte) ([]provider.FaceObservation, error) {
	return nil, domain.ErrEmbeddingsUnsupported
}

// CompareFaces is not supported with raw embeddings: the Rekognition
// CompareFaces API takes image bytes, not vectors. Use CompareFaceImages.
func (p *Provider) CompareFaces(ctx context.Context, embedding1, embedding2 []float64) (float64, error) {
	return 0, domain.ErrEmbeddingsUnsupported
}

// CompareFaceImages compares two face images using the AWS Rekognition
// CompareFaces API. Returns similarity between 0.0 and 1.0.
func (p *Provider) CompareFaceImages(ctx context.Context, sourceImage, targetImage []byte, similarityThreshold float64) (float64, error) {
	if err := validateImage(sourceImage); err != nil {
		return 0, fmt.Errorf("source image: %w", err)
	}
	if err := validateImage(targetImage); err != nil {
		return 0, fmt.Errorf("target image: %w", err)
	}

	input := &rekognition.CompareFacesInput{
		SourceImage: &types.Image{
			Bytes: sourceImage,
		},
		TargetImage: &types.Image{
			Bytes: targetImage,
		},
		SimilarityThreshold: aws.Float32(float32(similarityThreshold * 100)), // Convert 0-1 to 0-100
	}

	output, err := p.client.rekognition.CompareFaces(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("compare faces: %w", classifyAPIError(err))
	}

	if len(output.FaceMatches) == 0 {
		return 0, nil
	}

	bestMatch := output.FaceMatches[0]
	return float64(aws.ToFloat32(bestMatch.Similarity)) / 100.0, nil
}
