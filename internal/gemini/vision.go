package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/minjae/threadlens/internal/prompts"
)

// ExtractImageText runs the vision model over raw image bytes and returns
// whatever text it reads out. Unlike the enrichment methods this returns an
// error, since the extractor treats OCR failure as "no text" rather than
// substituting a default.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - imageData: raw image bytes.
//   - mimeType: image MIME type (image/jpeg, image/png, ...).
//
// Returns:
//   - string: extracted text, possibly empty.
//   - error: non-nil if the API request fails after retries.
func (c *Client) ExtractImageText(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("no image data")
	}

	parts := []requestPart{
		{Text: prompts.VisionOCR},
		{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(imageData),
		}},
	}
	return c.generate(ctx, parts)
}
