package admin

import "errors"

var (
	ErrInvalidTeams  = errors.New("invalid_teams")
	ErrInvalidOdds   = errors.New("invalid_odds")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInvalidPrice  = errors.New("invalid_price")
	ErrInvalidStock  = errors.New("invalid_stock")
	ErrInvalidName   = errors.New("invalid_name")
)
