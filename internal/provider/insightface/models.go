package insightface

// EmbedRequest for POST /embed
type EmbedRequest struct {
	Img   string `json:"img"`   // base64 encoded image
	Model string `json:"model"` // "buffalo_l", "buffalo_s", etc
}

// EmbedResponse from POST /embed
type EmbedResponse struct {
	Faces []EmbedResult `json:"faces"`
}

type EmbedResult struct {
	Embedding []float64 `json:"embedding"`
	Bbox      Bbox      `json:"bbox"`
	DetScore  float64   `json:"det_score"`
}

// Bbox is the pixel bounding box [x1, y1] to [x2, y2] of a detected face
type Bbox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}
