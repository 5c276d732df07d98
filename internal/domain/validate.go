package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateEntries checks every entry and reports the first invalid one.
func ValidateEntries(entries []WordEntry) error {
	for i := range entries {
		if err := validate.Struct(entries[i]); err != nil {
			return fmt.Errorf("%w: entry %d (%q): %v", ErrInvalidWordEntry, i, entries[i].Source, err)
		}
	}
	return nil
}
