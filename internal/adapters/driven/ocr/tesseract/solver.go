// Package tesseract solves captcha images with the Tesseract OCR
// engine through gosseract. The csgt.vn captchas are short distorted
// alphanumerics that stock Tesseract reads well enough for a retry
// loop.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
)

// answerAlphabet is every rune a captcha answer can contain.
const answerAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Config configures the solver.
type Config struct {
	// Language selects the traineddata to load. Empty means the
	// gosseract default.
	Language string

	// Logger receives solve events.
	Logger zerolog.Logger
}

// Solver implements driven.CaptchaSolver on top of gosseract. A fresh
// gosseract client is created per call; the clients are not safe for
// concurrent use and are cheap next to the recognition itself.
type Solver struct {
	language string
	log      zerolog.Logger
}

var _ driven.CaptchaSolver = (*Solver)(nil)

// New creates a Solver from cfg.
func New(cfg Config) *Solver {
	return &Solver{
		language: cfg.Language,
		log:      cfg.Logger.With().Str("component", "tesseract").Logger(),
	}
}

// Solve runs the image through Tesseract and returns the trimmed text.
// An empty result is not an error; the caller's captcha check decides
// whether the answer was good.
func (s *Solver) Solve(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if s.language != "" {
		if err := client.SetLanguage(s.language); err != nil {
			return "", fmt.Errorf("set ocr language: %w", err)
		}
	}
	// The captcha is one short line of letters and digits; telling
	// Tesseract so cuts most of its misreads.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}
	if err := client.SetWhitelist(answerAlphabet); err != nil {
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCaptchaUnreadable, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCaptchaUnreadable, err)
	}

	answer := strings.TrimSpace(text)
	s.log.Debug().Str("answer", answer).Msg("captcha image recognized")
	return answer, nil
}

// Close implements driven.CaptchaSolver. Clients are per-call, so there
// is nothing to release.
func (s *Solver) Close() error {
	return nil
}
