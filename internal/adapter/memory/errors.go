package memory

import (
	"errors"
	"fmt"

	"gitlab.com/results-api.net/internal/static/errs"
)

var (
	ErrUnknownOwner  = fmt.Errorf("memory: owner does not exist: %w", errs.BadReference)
	ErrUnknownResult = fmt.Errorf("memory: result does not exist: %w", errs.BadReference)
	ErrDuplicateUser = errors.New("memory: user name already taken")
)
