package driven

import "context"

// CaptchaSolver turns a captcha image into its text answer.
// Implementations wrap an OCR engine or an external solving service.
type CaptchaSolver interface {
	// Solve returns the text read from the image. It returns an error
	// when no plausible answer could be produced; the caller decides
	// whether to retry with a fresh captcha.
	Solve(ctx context.Context, image []byte) (string, error)

	// Close releases the underlying OCR resources.
	Close() error
}
