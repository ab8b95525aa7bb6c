package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
)

func TestNew_Unreachable(t *testing.T) {
	// Given: nothing listens on the configured port
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conf := config.Redis{Host: "127.0.0.1", Port: "1"}

	// When: opening the storage
	client, err := New(ctx, conf)

	// Then: the failed ping is reported
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
	assert.Nil(t, client)
}
