package insightface

import "errors"

var (
	ErrServiceUnavailable = errors.New("insightface service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from insightface")
	ErrEmptyEmbedding     = errors.New("empty embedding in insightface response")
)
