package ocr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// labelPrompt asks Gemini for a fixed line-oriented format so parsing stays
// trivial. "Unknown" marks fields the model could not read; the parser maps
// those to absent.
const labelPrompt = `You are reading a supermarket product label image.
Extract the following details in EXACTLY this format (one per line):

Brand: <brand_name or Unknown>
Product: <short product name or Unknown>
Quantity: <quantity like 500ml, 1L, 100g, 10pcs or Unknown>

Be concise and accurate. If you cannot determine a field, write "Unknown".
Only extract what you can clearly see in the image.`

// GeminiClient performs vision OCR on product crops using the Gemini API.
// An unconfigured client (no API key) is valid: Extract returns an empty
// extraction so the pipeline degrades instead of failing.
type GeminiClient struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	timeout    time.Duration
	configured bool
}

// NewGeminiClient creates a Gemini OCR client. An empty API key yields an
// unconfigured client and no error.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiClient, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	if apiKey == "" {
		logger.Warnf("GEMINI_API_KEY not configured - OCR will return empty extractions")
		return &GeminiClient{timeout: timeout}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	return &GeminiClient{
		client:     client,
		model:      client.GenerativeModel(modelName),
		timeout:    timeout,
		configured: true,
	}, nil
}

// Configured reports whether the Gemini API key is set
func (c *GeminiClient) Configured() bool {
	return c.configured
}

// Close closes the underlying client connection
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Extract runs label OCR on a JPEG crop. Timeouts and quota rejections map
// to the domain sentinels so the fusion engine can degrade per box.
func (c *GeminiClient) Extract(ctx context.Context, imageJPEG []byte, language string) (domain.OCRExtraction, error) {
	if !c.configured {
		return domain.OCRExtraction{Language: language}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(labelPrompt), genai.ImageData("jpeg", imageJPEG))
	if err != nil {
		return domain.OCRExtraction{}, classifyError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return domain.OCRExtraction{}, fmt.Errorf("empty response from gemini")
	}

	var fullText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText.WriteString(string(txt))
		}
	}

	extraction := parseExtraction(fullText.String())
	extraction.Language = language
	return extraction, nil
}

// classifyError maps transport failures to the domain error taxonomy
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrOCRTimeout, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", domain.ErrOCRQuotaExceeded, err)
	}

	return fmt.Errorf("gemini generation error: %w", err)
}

// parseExtraction parses the line-oriented "Key: value" OCR response.
// "Unknown" or empty values stay absent (empty string).
func parseExtraction(text string) domain.OCRExtraction {
	result := domain.OCRExtraction{
		RawText: strings.TrimSpace(text),
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, ":") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		if value == "" || strings.EqualFold(value, "unknown") {
			continue
		}

		switch key {
		case "brand":
			result.Brand = value
		case "product":
			result.ProductName = value
		case "quantity":
			result.QuantityText = value
		}
	}

	return result
}
