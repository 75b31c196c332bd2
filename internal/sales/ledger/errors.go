package ledger

import (
	"fmt"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrValidation, fmt.Sprintf(format, args...))
}

func stateErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrInvalidState, fmt.Sprintf(format, args...))
}

func notFoundErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrNotFound, fmt.Sprintf(format, args...))
}
