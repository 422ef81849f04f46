package httptransport

import (
	"errors"
	"net/http"

	"neon-bets/internal/app/admin"
	"neon-bets/internal/app/auth"
	"neon-bets/internal/app/betting"
	"neon-bets/internal/app/shop"
	"neon-bets/internal/app/wallet"
	"neon-bets/internal/store"
)

// writeAppError maps service and store errors onto HTTP statuses. The wire
// code is the sentinel's own message, so clients see the same vocabulary
// the services use.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, store.ErrOutOfStock):
		WriteHTTPError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrMatchClosed),
		errors.Is(err, store.ErrAlreadySettled),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, auth.ErrEmailTaken):
		WriteHTTPError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidSelection),
		errors.Is(err, betting.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, shop.ErrInvalidQuantity),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, admin.ErrInvalidTeams),
		errors.Is(err, admin.ErrInvalidOdds),
		errors.Is(err, admin.ErrInvalidStatus),
		errors.Is(err, admin.ErrInvalidRole),
		errors.Is(err, admin.ErrInvalidPrice),
		errors.Is(err, admin.ErrInvalidStock),
		errors.Is(err, admin.ErrInvalidName):
		WriteHTTPError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		WriteHTTPError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		WriteHTTPError(w, http.StatusServiceUnavailable, "store_unavailable")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
