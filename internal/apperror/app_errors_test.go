package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientError(t *testing.T) {
	t.Run("Unwraps a client sentinel", func(t *testing.T) {
		err := fmt.Errorf("failed to place player mark: %w", fmt.Errorf("%w: (3,0)", ErrInvalidCell))

		assert.Equal(t, ErrInvalidCell, ClientError(err))
	})

	t.Run("A lost update race is the client's to retry", func(t *testing.T) {
		err := fmt.Errorf("failed to make turn: %w", ErrConcurrentUpdate)

		assert.Equal(t, ErrConcurrentUpdate, ClientError(err))
	})

	t.Run("Server faults have no client error", func(t *testing.T) {
		assert.NoError(t, ClientError(errors.New("redis down")))
		assert.NoError(t, ClientError(ErrNoEmptyCell))
	})
}
