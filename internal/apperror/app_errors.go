package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrNoEmptyCell     = errors.New("board has no empty cell")
	ErrSessionNotFound = errors.New("session not found")

	ErrConcurrentUpdate = errors.New("session was changed by another request, retry")
)

var clientErrors = []error{
	ErrSessionNotFound,
	ErrGameFinished,
	ErrNotYourTurn,
	ErrCellOccupied,
	ErrInvalidCell,
	ErrConcurrentUpdate,
}

// ClientError returns the sentinel in err's chain that a client caused, or nil when err is a server fault.
func ClientError(err error) error {
	for _, sentinel := range clientErrors {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return nil
}
