package status

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/woozymasta/a2s/pkg/a2s"
)

// QueryOptions holds the A2S query tunables.
type QueryOptions struct {
	Timeout    time.Duration
	BufferSize uint16
}

// Query performs a live A2S_INFO request against the configured game server
// address ("host:port") and maps the reply into a Status. The round trip
// time of the query stands in for the ping slot. Uptime is not part of the
// A2S reply, so the simulated formula fills it.
func Query(address string, opts QueryOptions) (Status, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return Status{}, fmt.Errorf("invalid game server address %q: %w", address, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Status{}, fmt.Errorf("invalid game server port %q: %w", portStr, err)
	}

	client, err := a2s.New(host, port)
	if err != nil {
		return Status{}, err
	}
	defer func() { _ = client.Close() }()

	client.BufferSize = opts.BufferSize
	client.Timeout = opts.Timeout

	start := time.Now()
	info, err := client.GetInfo()
	if err != nil {
		return Status{}, err
	}
	rtt := time.Since(start)

	return Status{
		State:      Online,
		Players:    int(info.Players),
		MaxPlayers: int(info.MaxPlayers),
		Ping:       int(rtt.Milliseconds()),
		Uptime:     simUptime(),
	}, nil
}
