package domain

// DetectionBox is one detector output region with a class label and
// confidence score. Immutable once produced by the detector adapter.
type DetectionBox struct {
	ID         string
	BBox       [4]float64 // x1, y1, x2, y2 in pixel coordinates
	ClassLabel string
	Confidence float64 // 0..1
}

// OCRExtraction holds the text fields extracted from one product region.
// Convention: an empty string means "not extracted"; adapters never return
// placeholder values like "Unknown".
type OCRExtraction struct {
	Brand        string
	ProductName  string
	QuantityText string
	RawText      string
	Language     string
}

// FusedCandidate is a detection box merged with its OCR extraction.
// DisplayLabel is always non-empty: it falls back to the detector class
// label when no OCR field survived normalization.
type FusedCandidate struct {
	Box          DetectionBox
	OCR          OCRExtraction
	DisplayLabel string
	OCRFailed    bool
}

// Detection is the client-facing detection payload. Optional fields use
// omitempty so that "not extracted" serializes as absent, never as "".
type Detection struct {
	ID           string    `json:"id"`
	BBox         []float64 `json:"bbox"`
	ClassName    string    `json:"class_name"`
	Confidence   float64   `json:"confidence"`
	Brand        string    `json:"brand,omitempty"`
	ProductName  string    `json:"product_name,omitempty"`
	QuantityText string    `json:"quantity_text,omitempty"`
	RawText      string    `json:"raw_text,omitempty"`
	OCRFailed    bool      `json:"ocr_failed,omitempty"`
}

// PredictionRequest is the /predict request body. Pointer fields
// distinguish "absent" from zero values so defaults can be applied.
type PredictionRequest struct {
	Image         string   `json:"image" binding:"required"`
	IncludeAudio  *bool    `json:"include_audio"`
	Language      string   `json:"language"`
	MinConfidence *float64 `json:"min_confidence"`
}

// PredictionResponse is the /predict response body.
type PredictionResponse struct {
	Status           string      `json:"status"`
	Detections       []Detection `json:"detections"`
	Summary          string      `json:"summary,omitempty"`
	AudioURL         string      `json:"audio_url,omitempty"`
	ProcessingTimeMS int64       `json:"processing_time_ms,omitempty"`
	TotalItems       int         `json:"total_items"`
}

// HealthResponse is the /health response body.
type HealthResponse struct {
	Status           string          `json:"status"`
	ModelLoaded      bool            `json:"model_loaded"`
	GeminiConfigured bool            `json:"gemini_configured"`
	Services         map[string]bool `json:"services"`
	Timestamp        string          `json:"timestamp,omitempty"`
}

// ToDetection converts a fused candidate to its client-facing payload.
func (c FusedCandidate) ToDetection() Detection {
	return Detection{
		ID:           c.Box.ID,
		BBox:         []float64{c.Box.BBox[0], c.Box.BBox[1], c.Box.BBox[2], c.Box.BBox[3]},
		ClassName:    c.Box.ClassLabel,
		Confidence:   c.Box.Confidence,
		Brand:        c.OCR.Brand,
		ProductName:  c.OCR.ProductName,
		QuantityText: c.OCR.QuantityText,
		RawText:      c.OCR.RawText,
		OCRFailed:    c.OCRFailed,
	}
}
