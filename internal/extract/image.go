package extract

import (
	"context"
	"strings"
)

// ocrMethod labels cached OCR rows with the engine that produced them.
const ocrMethod = "gemini_vision"

// extractFromImage downloads an image and runs vision OCR over it. The OCR
// cache is consulted first and written after. Any failure returns "".
func (e *Extractor) extractFromImage(ctx context.Context, imageURL string) string {
	if imageURL == "" || e.vision == nil {
		return ""
	}

	if e.ocrCache != nil {
		if text, ok := e.ocrCache.GetOCR(ctx, imageURL); ok {
			e.log.WithField("image_url", imageURL).Debug("OCR cache hit")
			return text
		}
	}

	resp, err := e.http.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		e.log.WithError(err).WithField("image_url", imageURL).Warn("Failed to download image")
		return ""
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		e.log.WithField("image_url", imageURL).Warnf("Image download returned HTTP %d", resp.StatusCode())
		return ""
	}

	text, err := e.vision.ExtractImageText(ctx, resp.Body(), imageMIMEType(imageURL, resp.Header().Get("Content-Type")))
	if err != nil {
		e.log.WithError(err).WithField("image_url", imageURL).Warn("Vision OCR failed")
		return ""
	}

	cleaned := CleanOCRText(text)
	if cleaned == "" {
		e.log.WithField("image_url", imageURL).Debug("No text extracted from image")
		return ""
	}

	e.log.WithField("image_url", imageURL).Infof("Image text extracted (%d chars)", len(cleaned))
	if e.ocrCache != nil {
		e.ocrCache.PutOCR(ctx, imageURL, cleaned, ocrMethod)
	}
	return cleaned
}

// imageMIMEType picks the MIME type from the response header when present,
// falling back to the URL extension.
func imageMIMEType(imageURL, contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
		return contentType
	}

	lower := strings.ToLower(imageURL)
	switch {
	case strings.Contains(lower, ".png"):
		return "image/png"
	case strings.Contains(lower, ".gif"):
		return "image/gif"
	case strings.Contains(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// CleanOCRText normalizes raw OCR output: lines are trimmed, empty lines
// dropped, and all whitespace runs collapsed into single spaces.
func CleanOCRText(text string) string {
	if text == "" {
		return ""
	}
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
