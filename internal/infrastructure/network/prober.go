// Package network checks upstream connectivity
package network

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

const (
	DefaultProbeAddress = "8.8.8.8:53"
	DefaultProbeTimeout = 3 * time.Second
)

// DialProber reports the network as reachable when a TCP connection to
// the probe address succeeds within the timeout
type DialProber struct {
	address string
	timeout time.Duration
	dialer  net.Dialer
	logger  *zap.Logger
}

// NewDialProber creates a prober; empty values use the defaults
func NewDialProber(address string, timeout time.Duration, logger *zap.Logger) *DialProber {
	if address == "" {
		address = DefaultProbeAddress
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &DialProber{address: address, timeout: timeout, logger: logger.Named("network-prober")}
}

var _ outbound.ConnectivityProber = (*DialProber)(nil)

// Reachable dials the probe address
func (p *DialProber) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	latency := time.Since(start)
	if err != nil {
		p.logger.Debug("Connectivity probe failed",
			zap.String("address", p.address),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return false
	}
	_ = conn.Close()

	p.logger.Debug("Connectivity probe succeeded",
		zap.String("address", p.address),
		zap.Duration("latency", latency),
	)
	return true
}
