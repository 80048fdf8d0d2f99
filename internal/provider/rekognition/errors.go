package rekognition

import (
	"errors"

	"github.com/aws/smithy-go"
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidImage     = "InvalidImageFormatException"
	errCodeImageTooLarge    = "ImageTooLargeException"
	errCodeInvalidParameter = "InvalidParameterException"
)

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrInvalidImage indicates that Rekognition rejected the image payload
	ErrInvalidImage = errors.New("rekognition rejected image")

	// ErrImageTooSmall indicates the image payload is below the minimum size
	ErrImageTooSmall = errors.New("image too small for rekognition")

	// ErrImageTooLarge indicates the image exceeds the Rekognition 5MB limit
	ErrImageTooLarge = errors.New("image too large for rekognition")
)

// classifyAPIError converts known Rekognition API error codes into package
// errors; unknown errors pass through unchanged.
func classifyAPIError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case errCodeAccessDenied:
		return ErrInvalidCredentials
	case errCodeInvalidImage, errCodeInvalidParameter:
		return ErrInvalidImage
	case errCodeImageTooLarge:
		return ErrImageTooLarge
	}

	return err
}
