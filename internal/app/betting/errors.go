package betting

import "errors"

var ErrInvalidAmount = errors.New("invalid_amount")
