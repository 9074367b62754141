package engine

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidPromotion = errors.New("invalid promotion")
	ErrOutOfBounds      = errors.New("square out of bounds")

	// ErrPromotionPending matches ErrInvalidPromotion under errors.Is.
	ErrPromotionPending = fmt.Errorf("promotion pending, choose a piece first: %w", ErrInvalidPromotion)
)
