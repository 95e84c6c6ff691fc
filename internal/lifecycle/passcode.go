package lifecycle

import (
	"strings"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
)

// PasscodeLength is the number of digits in a delivery passcode.
const PasscodeLength = 4

// PasscodeInput models the passcode dialog's four single-digit cells and the
// focus-navigation rules between them, independent of any UI toolkit.
type PasscodeInput struct {
	cells [PasscodeLength]string
	focus int
}

// NewPasscodeInput returns an empty input with focus on the first cell.
func NewPasscodeInput() *PasscodeInput {
	return &PasscodeInput{}
}

// Focus returns the index of the currently focused cell.
func (p *PasscodeInput) Focus() int { return p.focus }

// Cells returns a copy of the current cell contents.
func (p *PasscodeInput) Cells() [PasscodeLength]string { return p.cells }

// Input applies typed or pasted text to the cell at index. Non-numeric
// characters are stripped; when several digits land in one cell only the last
// is kept. Entering a digit advances focus to the next cell.
func (p *PasscodeInput) Input(index int, value string) {
	if index < 0 || index >= PasscodeLength {
		return
	}

	digits := stripNonDigits(value)
	if digits == "" {
		p.cells[index] = ""
		p.focus = index
		return
	}

	p.cells[index] = string(digits[len(digits)-1])
	p.focus = index
	if index < PasscodeLength-1 {
		p.focus = index + 1
	}
}

// Backspace applies a backspace key press on the cell at index. On an empty
// cell it clears the previous cell and moves focus back; on a filled cell it
// clears only that cell without moving focus.
func (p *PasscodeInput) Backspace(index int) {
	if index < 0 || index >= PasscodeLength {
		return
	}

	if p.cells[index] != "" {
		p.cells[index] = ""
		p.focus = index
		return
	}

	if index > 0 {
		p.cells[index-1] = ""
		p.focus = index - 1
	}
}

// Value concatenates the cells into the candidate passcode.
func (p *PasscodeInput) Value() string {
	return strings.Join(p.cells[:], "")
}

// Complete reports whether all four cells are filled, i.e. whether the
// confirm action may be enabled.
func (p *PasscodeInput) Complete() bool {
	for _, c := range p.cells {
		if c == "" {
			return false
		}
	}
	return true
}

// Reset clears all cells and returns focus to the first one.
func (p *PasscodeInput) Reset() {
	p.cells = [PasscodeLength]string{}
	p.focus = 0
}

// ValidatePasscode checks the submitted passcode shape before any network
// call: exactly four characters, digits 0-9 only.
func ValidatePasscode(passcode string) error {
	if len(passcode) != PasscodeLength {
		return domainErrors.ErrInvalidPasscode
	}
	for _, r := range passcode {
		if r < '0' || r > '9' {
			return domainErrors.ErrInvalidPasscode
		}
	}
	return nil
}

func stripNonDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
