package bulb

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jmylchreest/bulbctl/internal/errors"
)

const (
	// DefaultBroadcast is the limited broadcast address Discover sends to
	DefaultBroadcast = "255.255.255.255"

	// DefaultDiscoveryTimeout is how long Discover collects replies
	DefaultDiscoveryTimeout = 2 * time.Second
)

// DiscoverOptions configures a discovery run
type DiscoverOptions struct {
	Broadcast string
	Port      int
	Timeout   time.Duration
	Logger    *slog.Logger
}

// DiscoveredDevice is one device that answered a discovery request
type DiscoveredDevice struct {
	IP      string
	SysInfo SysInfo
}

// Discover broadcasts a get_sysinfo request and collects every reply until the
// timeout or ctx ends. Devices are returned in the order they first answered,
// one entry per IP.
func Discover(ctx context.Context, opts DiscoverOptions) ([]DiscoveredDevice, error) {
	if opts.Broadcast == "" {
		opts.Broadcast = DefaultBroadcast
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultDiscoveryTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("broadcast", opts.Broadcast, "port", opts.Port)

	payload, err := json.Marshal(GetSysInfo())
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err, "failed to encode discovery request")
	}

	s, err := openSession()
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, err, "failed to bind socket")
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	addr, err := resolve(ctx, opts.Broadcast, opts.Port)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, err, "failed to resolve %s", opts.Broadcast)
	}

	go func() {
		<-ctx.Done()
		s.close()
	}()

	if _, err := s.conn.WriteToUDP(Encrypt(payload, DefaultKey), addr); err != nil {
		return nil, errors.Wrap(errors.ErrTransport, err, "failed to send discovery request to %s", addr)
	}
	logger.Debug("discovery: request sent", "timeout", opts.Timeout)

	var devices []DiscoveredDevice
	seen := make(map[string]bool)
	buf := make([]byte, maxDatagramSize)
	for {
		n, from, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return devices, errors.Wrap(errors.ErrTransport, err, "failed to receive discovery replies")
		}
		ip := from.IP.String()
		if seen[ip] {
			continue
		}

		// Decrypt works in place, so hand it a copy of the shared buffer
		data := make([]byte, n)
		copy(data, buf[:n])
		resp, err := decodeReply(data)
		if err != nil {
			logger.Debug("discovery: skipping undecodable reply", "from", ip, "error", err)
			continue
		}
		var info SysInfo
		if err := Decode(resp, NamespaceSystem, MethodGetSysInfo, &info); err != nil {
			logger.Debug("discovery: skipping reply without sysinfo", "from", ip, "error", err)
			continue
		}

		seen[ip] = true
		devices = append(devices, DiscoveredDevice{IP: ip, SysInfo: info})
		logger.Debug("discovery: device found", "ip", ip, "alias", info.Alias, "model", info.Model)
	}

	logger.Info("discovery finished", "devices", len(devices))
	return devices, nil
}
