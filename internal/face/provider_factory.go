package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/chamada/internal/config"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider/insightface"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider/rekognition"
)

// ProviderType defines supported face recognition provider types
type ProviderType string

const (
	// ProviderTypeInsightFace is the InsightFace provider (local, embedding-based)
	ProviderTypeInsightFace ProviderType = "insightface"
	// ProviderTypeRekognition is the AWS Rekognition provider (cloud, detection only)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the deterministic in-memory provider for tests
	ProviderTypeMock ProviderType = "mock"
)

// NewFaceProvider creates a FaceProvider instance based on configuration.
// InsightFace is the default: it is the only provider that returns embeddings,
// which the matching engine requires. Rekognition covers detection-only flows.
//
// Environment variables:
//   - FACE_PROVIDER: "insightface", "rekognition" or "mock" (default: "insightface")
//   - INSIGHTFACE_URL: InsightFace API URL (default: "http://localhost:8000")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID: AWS credentials (via AWS SDK credential chain)
//   - AWS_SECRET_ACCESS_KEY: AWS credentials (via AWS SDK credential chain)
func NewFaceProvider(ctx context.Context, cfg *config.Config) (provider.FaceProvider, error) {
	providerType := ProviderType(cfg.FaceProvider)

	switch providerType {
	case ProviderTypeRekognition:
		return createRekognitionProvider(ctx, cfg)

	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeInsightFace, "":
		return createInsightFaceProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.FaceProvider, ProviderTypeInsightFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

func createRekognitionProvider(ctx context.Context, cfg *config.Config) (provider.FaceProvider, error) {
	rekogConfig := rekognition.Config{
		Region: cfg.AWSRegion,
	}

	prov, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition provider: %w", err)
	}

	return prov, nil
}

func createInsightFaceProvider(cfg *config.Config) provider.FaceProvider {
	insightConfig := insightface.Config{
		BaseURL: cfg.InsightFaceURL,
	}

	// Use defaults for other fields (timeout, model, retry)
	if insightConfig.BaseURL == "" {
		insightConfig.BaseURL = insightface.DefaultConfig().BaseURL
	}

	return insightface.NewProvider(insightConfig)
}
