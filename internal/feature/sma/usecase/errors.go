// Package usecase implements the moving average analysis for the sma feature.
package usecase

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory is returned when fewer daily bars than the long window are available.
var ErrInsufficientHistory = errors.New("not enough history for SMA 200")

// InsufficientHistoryError carries how many bars were available.
type InsufficientHistoryError struct {
	Have int
	Need int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s: only %d of %d days available", ErrInsufficientHistory, e.Have, e.Need)
}

// Is reports ErrInsufficientHistory as the error class.
func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}
