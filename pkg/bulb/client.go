package bulb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/jmylchreest/bulbctl/internal/errors"
)

const (
	// DefaultPort is the UDP port bulbs listen on
	DefaultPort = 9999

	// DefaultTimeout bounds a single exchange when the endpoint sets none
	DefaultTimeout = 3500 * time.Millisecond

	// maxDatagramSize is the largest UDP payload we will read
	maxDatagramSize = 65507
)

// Exchange outcomes reported to an Observer
const (
	OutcomeOK        = "ok"
	OutcomeTimeout   = "timeout"
	OutcomeTransport = "transport"
	OutcomeProtocol  = "protocol"
	OutcomeCancelled = "cancelled"
)

// Command is a protocol method call: namespace -> method -> parameters.
// Replies have the same shape with results in place of parameters.
type Command map[string]any

// Endpoint identifies one bulb
type Endpoint struct {
	IP      string
	Port    int
	Timeout time.Duration
}

// Sender performs one request/response exchange
type Sender interface {
	Send(ctx context.Context, cmd Command) (Command, error)
}

// Observer is told the outcome and duration of every exchange that reached the network
type Observer interface {
	ObserveExchange(outcome string, duration time.Duration)
}

// Client exchanges commands with a single bulb over UDP. Every Send binds its
// own ephemeral socket, so concurrent calls do not share state.
type Client struct {
	endpoint Endpoint
	logger   *slog.Logger
	observer Observer
}

var _ Sender = (*Client)(nil)

// NewClient creates a new client for the bulb at endpoint. Zero Port and
// Timeout fall back to DefaultPort and DefaultTimeout.
func NewClient(endpoint Endpoint, logger *slog.Logger, observer ...Observer) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if endpoint.Port == 0 {
		endpoint.Port = DefaultPort
	}
	if endpoint.Timeout <= 0 {
		endpoint.Timeout = DefaultTimeout
	}
	c := &Client{
		endpoint: endpoint,
		logger:   logger,
	}
	if len(observer) > 0 && observer[0] != nil {
		c.observer = observer[0]
	}
	return c
}

// Endpoint returns the endpoint the client talks to
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Encrypt ciphers buf with DefaultKey
func (c *Client) Encrypt(buf []byte) []byte {
	return Encrypt(buf, DefaultKey)
}

// Decrypt deciphers buf with DefaultKey
func (c *Client) Decrypt(buf []byte) []byte {
	return Decrypt(buf, DefaultKey)
}

// Send transmits cmd and waits for the first reply datagram, the endpoint
// timeout, or ctx, whichever comes first. The socket is closed before Send
// returns on every path.
func (c *Client) Send(ctx context.Context, cmd Command) (Command, error) {
	if c.endpoint.IP == "" {
		return nil, errors.Configurationf("IP not set")
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err, "failed to encode command")
	}

	start := time.Now()
	resp, outcome, err := c.exchange(ctx, payload)
	if c.observer != nil {
		c.observer.ObserveExchange(outcome, time.Since(start))
	}
	return resp, err
}

// datagram is what the reader goroutine hands back to the exchange
type datagram struct {
	data []byte
	err  error
}

// session owns one bound socket for the duration of one exchange
type session struct {
	conn *net.UDPConn
	once sync.Once
}

// openSession binds an unconnected socket on an ephemeral port
func openSession() (*session, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, err
	}
	return &session{conn: conn}, nil
}

// dialSession binds an ephemeral port connected to peer. Only datagrams from
// peer are delivered, and an ICMP rejection from peer fails the next read.
func dialSession(peer *net.UDPAddr) (*session, error) {
	conn, err := net.DialUDP("udp4", nil, peer)
	if err != nil {
		return nil, err
	}
	return &session{conn: conn}, nil
}

// close releases the socket. Safe to call any number of times.
func (s *session) close() {
	s.once.Do(func() {
		s.conn.Close()
	})
}

// receive reads a single datagram. After close the read fails and the result
// lands in the buffered channel with nobody waiting, which drops it.
func (s *session) receive(out chan<- datagram) {
	buf := make([]byte, maxDatagramSize)
	n, err := s.conn.Read(buf)
	if err != nil {
		out <- datagram{err: err}
		return
	}
	out <- datagram{data: buf[:n]}
}

// resolve turns host into an IPv4 UDP address. Literal addresses need no
// lookup; names are looked up under ctx.
func resolve(ctx context.Context, host string, port int) (*net.UDPAddr, error) {
	if ip, err := netip.ParseAddr(host); err == nil {
		ip = ip.Unmap()
		if !ip.Is4() {
			return nil, fmt.Errorf("%s is not an IPv4 address", host)
		}
		return net.UDPAddrFromAddrPort(netip.AddrPortFrom(ip, uint16(port))), nil
	}
	ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip4", host)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no IPv4 address for %s", host)
	}
	return net.UDPAddrFromAddrPort(netip.AddrPortFrom(ips[0].Unmap(), uint16(port))), nil
}

// interrupted reports an exchange ended by ctx
func interrupted(ctx context.Context, logger *slog.Logger, peer string) (Command, string, error) {
	if ctx.Err() == context.DeadlineExceeded {
		logger.Warn("bulb: exchange deadline exceeded")
		return nil, OutcomeTimeout, errors.Wrap(errors.ErrTimeout, ctx.Err(), "no reply from %s", peer)
	}
	logger.Debug("bulb: exchange cancelled")
	return nil, OutcomeCancelled, errors.WrapErrorf(ctx.Err(), "exchange with %s cancelled", peer)
}

func (c *Client) exchange(ctx context.Context, payload []byte) (Command, string, error) {
	ip := c.endpoint.IP
	timeout := c.endpoint.Timeout
	logger := c.logger.With("ip", ip, "port", c.endpoint.Port)

	if ctx.Err() != nil {
		return interrupted(ctx, logger, ip)
	}

	// One deadline covers resolution and the wait for the reply
	deadline := time.Now().Add(timeout)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	resolveCtx, cancel := context.WithDeadline(ctx, deadline)
	addr, err := resolve(resolveCtx, ip, c.endpoint.Port)
	cancel()
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return interrupted(ctx, logger, ip)
		case !time.Now().Before(deadline):
			logger.Warn("bulb: resolve timed out", "timeout", timeout)
			return nil, OutcomeTimeout, errors.Wrap(errors.ErrTimeout, err, "no address for %s within %s", ip, timeout)
		}
		logger.Error("bulb: resolve failed", "error", err)
		return nil, OutcomeTransport, errors.Wrap(errors.ErrTransport, err, "failed to resolve %s", ip)
	}

	s, err := dialSession(addr)
	if err != nil {
		logger.Error("bulb: bind failed", "error", err)
		return nil, OutcomeTransport, errors.Wrap(errors.ErrTransport, err, "failed to bind socket")
	}
	defer s.close()
	logger = logger.With("local", s.conn.LocalAddr().String())

	replies := make(chan datagram, 1)
	go s.receive(replies)

	wire := Encrypt(payload, DefaultKey)
	if _, err := s.conn.Write(wire); err != nil {
		s.close()
		logger.Error("bulb: send failed", "error", err)
		return nil, OutcomeTransport, errors.Wrap(errors.ErrTransport, err, "failed to send to %s", addr)
	}
	logger.Debug("bulb: command sent", "bytes", len(wire), "timeout", timeout)

	select {
	case d := <-replies:
		s.close()
		if d.err != nil {
			logger.Error("bulb: receive failed", "error", d.err)
			return nil, OutcomeTransport, errors.Wrap(errors.ErrTransport, d.err, "failed to receive from %s", addr)
		}
		resp, err := decodeReply(d.data)
		if err != nil {
			logger.Warn("bulb: undecodable reply", "bytes", len(d.data), "error", err)
			return nil, OutcomeProtocol, err
		}
		logger.Debug("bulb: reply received", "bytes", len(d.data))
		return resp, OutcomeOK, nil

	case <-timer.C:
		s.close()
		logger.Warn("bulb: exchange timed out", "timeout", timeout)
		return nil, OutcomeTimeout, errors.Timeoutf("no reply from %s within %s", addr, timeout)

	case <-ctx.Done():
		s.close()
		return interrupted(ctx, logger, addr.String())
	}
}

// decodeReply deciphers a datagram and parses it as a command-shaped object
func decodeReply(data []byte) (Command, error) {
	plain := Decrypt(data, DefaultKey)
	var resp Command
	if err := json.Unmarshal(plain, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrProtocol, err, "failed to decode reply")
	}
	if resp == nil {
		return nil, errors.Protocolf("reply is not an object")
	}
	return resp, nil
}
