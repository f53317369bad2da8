package network

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialProber(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	address := listener.Addr().String()
	prober := NewDialProber(address, time.Second, zap.NewNop())
	assert.True(t, prober.Reachable(context.Background()))

	require.NoError(t, listener.Close())
	assert.False(t, prober.Reachable(context.Background()), "nothing listens any more")
}

func TestDialProber_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober := NewDialProber("127.0.0.1:1", time.Second, zap.NewNop())
	assert.False(t, prober.Reachable(ctx))
}

func TestNewDialProber_Defaults(t *testing.T) {
	prober := NewDialProber("", 0, zap.NewNop())
	assert.Equal(t, DefaultProbeAddress, prober.address)
	assert.Equal(t, DefaultProbeTimeout, prober.timeout)
}
