package shop

import "errors"

var ErrInvalidQuantity = errors.New("invalid_quantity")
