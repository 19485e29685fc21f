package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/parser"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/encoding/unicode"
)

const (
	network          = "udp4"
	localhostName    = "localhost"
	loopbackAddress  = "127.0.0.1"
	replacementChar  = "�"
	closedSocketHint = "use of closed network connection"
)

var log = logger.GetOrCreate("listener")

// ArgsUDPListener defines the arguments needed to create a new UDP listener
type ArgsUDPListener struct {
	Host        string
	Port        int
	BufferSize  int
	PollTimeout time.Duration
	Store       MetricIngester
	Registerer  prometheus.Registerer
}

type udpListener struct {
	host           string
	port           int
	bufferSize     int
	pollTimeout    time.Duration
	store          MetricIngester
	metrics        *listenerMetrics
	resolveAddress func(network string, address string) (*net.UDPAddr, error)
	readDatagram   func(conn *net.UDPConn, buff []byte) (int, error)

	mutConn sync.RWMutex
	conn    *net.UDPConn
	state   atomic.Int32

	datagramsReceived atomic.Uint64
	bytesReceived     atomic.Uint64
	linesParsed       atomic.Uint64
	parseFailures     atomic.Uint64
	receiveErrors     atomic.Uint64
}

// NewUDPListener creates a new listener in the Created state
func NewUDPListener(args ArgsUDPListener) (*udpListener, error) {
	if check.IfNil(args.Store) {
		return nil, errNilStore
	}
	if args.BufferSize <= 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidBufferSize, args.BufferSize)
	}
	if args.PollTimeout <= 0 {
		return nil, fmt.Errorf("%w: %v", errInvalidPollTimeout, args.PollTimeout)
	}

	metrics, err := newListenerMetrics(args.Registerer)
	if err != nil {
		return nil, fmt.Errorf("%w while registering the listener metrics", err)
	}

	return &udpListener{
		host:           args.Host,
		port:           args.Port,
		bufferSize:     args.BufferSize,
		pollTimeout:    args.PollTimeout,
		store:          args.Store,
		metrics:        metrics,
		resolveAddress: net.ResolveUDPAddr,
		readDatagram:   readFromUDP,
	}, nil
}

// Bind opens the UDP socket. If the host is localhost and it can not be resolved, the literal loopback
// address is tried once.
func (l *udpListener) Bind() error {
	if l.State() != Created {
		return fmt.Errorf("%w: listener is %s", ErrSocketBind, l.State())
	}

	addr, err := l.resolveAddress(network, net.JoinHostPort(l.host, strconv.Itoa(l.port)))
	if err != nil && l.host == localhostName && isResolutionError(err) {
		log.Warn("localhost seems undefined in your hosts file, using the loopback address instead",
			"address", loopbackAddress, "error", err)
		addr, err = l.resolveAddress(network, net.JoinHostPort(loopbackAddress, strconv.Itoa(l.port)))
	}
	if err != nil {
		return fmt.Errorf("%w %s:%d: %v", ErrSocketBind, l.host, l.port, err)
	}

	conn, err := net.ListenUDP(network, addr)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrSocketBind, addr.String(), err)
	}

	l.mutConn.Lock()
	l.conn = conn
	l.mutConn.Unlock()
	l.state.Store(int32(Bound))

	log.Info("listening on host & port", "address", conn.LocalAddr().String())

	return nil
}

// Listen runs the receive loop until the context is done. It returns an error only on a fatal socket error.
// The context is checked between reads, so stopping takes at most one poll timeout. Any other receive error
// pauses the loop for one poll timeout before the next read.
func (l *udpListener) Listen(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(Bound), int32(Listening)) {
		return errNotBound
	}

	l.mutConn.RLock()
	conn := l.conn
	l.mutConn.RUnlock()

	defer l.stop()

	buff := make([]byte, l.bufferSize)
	for {
		if ctx.Err() != nil {
			log.Debug("listener stop signal received")
			return nil
		}

		_ = conn.SetReadDeadline(time.Now().Add(l.pollTimeout))
		n, err := l.readDatagram(conn, buff)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if isClosedSocket(err) {
				return fmt.Errorf("%w while receiving datagrams", err)
			}

			l.receiveErrors.Add(1)
			if l.metrics != nil {
				l.metrics.receiveErrors.Inc()
			}
			log.Warn("error receiving datagram", "error", err, "total", l.receiveErrors.Load())
			if !l.pause(ctx) {
				return nil
			}
			continue
		}

		l.datagramsReceived.Add(1)
		l.bytesReceived.Add(uint64(n))
		if l.metrics != nil {
			l.metrics.datagramsReceived.Inc()
			l.metrics.bytesReceived.Add(float64(n))
		}

		l.handleDatagram(buff[:n])
	}
}

// handleDatagram parses every non-blank line and feeds the store. A malformed line is skipped and does not affect
// the other lines of the same datagram.
func (l *udpListener) handleDatagram(payload []byte) {
	for _, line := range parser.SplitLines(decodeUTF8(payload)) {
		record, err := parser.Parse(line)
		if err != nil {
			l.parseFailures.Add(1)
			if l.metrics != nil {
				l.metrics.parseFailures.Inc()
			}
			log.Debug("skipping metric line", "error", err)
			continue
		}

		l.linesParsed.Add(1)
		if l.metrics != nil {
			l.metrics.linesParsed.Inc()
		}

		err = l.store.Ingest(record)
		if err != nil {
			log.Debug("metric stored without a change entry", "error", err)
		}
	}
}

// pause returns false if the context was done while waiting
func (l *udpListener) pause(ctx context.Context) bool {
	timer := time.NewTimer(l.pollTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		log.Debug("listener stop signal received")
		return false
	case <-timer.C:
		return true
	}
}

func readFromUDP(conn *net.UDPConn, buff []byte) (int, error) {
	n, _, err := conn.ReadFromUDP(buff)

	return n, err
}

func (l *udpListener) stop() {
	l.mutConn.Lock()
	if l.conn != nil {
		_ = l.conn.Close()
	}
	l.mutConn.Unlock()

	l.state.Store(int32(Stopped))
	log.Debug("listener stopped", "datagrams", l.datagramsReceived.Load(), "parse failures", l.parseFailures.Load())
}

// Close releases the socket of a listener that was bound but never started listening
func (l *udpListener) Close() error {
	if !l.state.CompareAndSwap(int32(Bound), int32(Stopped)) {
		return nil
	}

	l.mutConn.Lock()
	defer l.mutConn.Unlock()

	return l.conn.Close()
}

// Address returns the bound address or an empty string if the socket is not bound yet
func (l *udpListener) Address() string {
	l.mutConn.RLock()
	defer l.mutConn.RUnlock()

	if l.conn == nil {
		return ""
	}

	return l.conn.LocalAddr().String()
}

// State returns the current lifecycle state
func (l *udpListener) State() State {
	return State(l.state.Load())
}

// Stats returns a copy of the listener counters
func (l *udpListener) Stats() common.ListenerStats {
	return common.ListenerStats{
		DatagramsReceived: l.datagramsReceived.Load(),
		BytesReceived:     l.bytesReceived.Load(),
		LinesParsed:       l.linesParsed.Load(),
		ParseFailures:     l.parseFailures.Load(),
		ReceiveErrors:     l.receiveErrors.Load(),
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (l *udpListener) IsInterfaceNil() bool {
	return l == nil
}

func decodeUTF8(payload []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(payload)
	if err != nil {
		return strings.ToValidUTF8(string(payload), replacementChar)
	}

	return string(decoded)
}

func isResolutionError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isClosedSocket(err error) bool {
	return errors.Is(err, net.ErrClosed) || strings.Contains(err.Error(), closedSocketHint)
}
