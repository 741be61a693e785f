package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/oukeidos/imgtrans/internal/apperrors"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// ErrNoImage is returned when a translation stream ends without inline
// image data.
var ErrNoImage = errors.New("model response contained no image data")

func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	wrapped := fmt.Errorf("gemini %s failed: %w", op, err)

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("Gemini %s timed out.", op), wrapped)
	}

	code := 0
	var apiErr genai.APIError
	var gerr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &gerr):
		code = gerr.Code
	default:
		// DNS, socket and similar failures below HTTP.
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("Gemini %s failed due to a network/runtime error.", op), wrapped)
	}

	switch kind := apperrors.FromStatus(code); kind {
	case apperrors.KindAuth:
		return apperrors.New(kind, fmt.Sprintf("Gemini authentication/authorization failed (%d).", code), wrapped)
	case apperrors.KindNotFound:
		return apperrors.New(kind, "Gemini model not found or no access (404).", wrapped)
	case apperrors.KindRateLimit:
		return apperrors.New(kind, "Gemini rate limit exceeded (429). Please try again later.", wrapped)
	case apperrors.KindTransient:
		return apperrors.New(kind, fmt.Sprintf("Gemini service temporary error (%d).", code), wrapped)
	default:
		return apperrors.New(kind, fmt.Sprintf("Gemini %s rejected (%d).", op, code), wrapped)
	}
}
