package lifecycle

import (
	"strings"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
)

// DefaultCancelReasons is the preset menu shown in the cancellation dialog.
// The list is configuration, not a contract; deployments may override it.
var DefaultCancelReasons = []string{
	"Wrong address provided",
	"Customer refused to pay",
	"Customer phone unreachable",
}

// Reason is the cancellation reason variant: either a preset menu entry or
// free text entered after selecting "Other".
type Reason struct {
	text   string
	custom bool
}

// PresetReason wraps a reason chosen from the preset menu.
func PresetReason(text string) Reason {
	return Reason{text: text}
}

// CustomReason wraps free text entered by the rider.
func CustomReason(text string) Reason {
	return Reason{text: text, custom: true}
}

// Custom reports whether the reason came from the free-text field.
func (r Reason) Custom() bool { return r.custom }

// Effective resolves the reason to the string sent to the backend. The
// trimmed text must be non-empty regardless of variant.
func (r Reason) Effective() (string, error) {
	text := strings.TrimSpace(r.text)
	if text == "" {
		return "", domainErrors.ErrReasonRequired
	}
	return text, nil
}
