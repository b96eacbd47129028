package domain

import "errors"

var (
	// ErrDetectorUnavailable is returned when the detection model is not loaded
	ErrDetectorUnavailable = errors.New("detector model not loaded")

	// ErrInferenceFailed is returned when the detector fails at runtime
	ErrInferenceFailed = errors.New("detector inference failed")

	// ErrOCRTimeout is returned when an OCR call exceeds its deadline
	ErrOCRTimeout = errors.New("ocr request timed out")

	// ErrOCRQuotaExceeded is returned when the OCR backend rejects for quota
	ErrOCRQuotaExceeded = errors.New("ocr quota exceeded")

	// ErrTTSUnavailable is returned when audio synthesis fails; non-fatal
	ErrTTSUnavailable = errors.New("tts service unavailable")

	// ErrCatalogUnavailable is returned on catalog storage errors; retryable
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrInvalidImage is returned when the image payload cannot be decoded
	ErrInvalidImage = errors.New("invalid image payload")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
