package emitter

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/metrics"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const network = "udp4"

var log = logger.GetOrCreate("emitter")

// ArgsUDPPusher defines the arguments needed to create a new UDP pusher
type ArgsUDPPusher struct {
	Address   string
	Registry  MetricsRegistry
	Formatter Formatter
}

type udpPusher struct {
	conn      *net.UDPConn
	registry  MetricsRegistry
	formatter Formatter
}

// NewUDPPusher creates a pusher that sends every registered metric to the DogStatsD address
func NewUDPPusher(args ArgsUDPPusher) (*udpPusher, error) {
	if check.IfNil(args.Registry) {
		return nil, errNilRegistry
	}
	if check.IfNil(args.Formatter) {
		return nil, errNilFormatter
	}

	_, _, err := net.SplitHostPort(args.Address)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", errInvalidAddress, args.Address, err)
	}
	addr, err := net.ResolveUDPAddr(network, args.Address)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", errInvalidAddress, args.Address, err)
	}

	conn, err := net.DialUDP(network, nil, addr)
	if err != nil {
		return nil, err
	}

	return &udpPusher{
		conn:      conn,
		registry:  args.Registry,
		formatter: args.Formatter,
	}, nil
}

// Push sends one datagram per metric. The metrics flagged as reset-after-push are reset when the snapshot is
// taken. Send errors are logged and do not stop the push.
func (p *udpPusher) Push(ctx context.Context) {
	if p.registry.Len() == 0 {
		log.Warn("DogStatsD pusher configured but there are no metrics to push")
		return
	}
	if ctx.Err() != nil {
		return
	}

	numSent := 0
	for _, m := range p.registry.SnapshotAndReset() {
		if p.send(m) {
			numSent++
		}
	}

	log.Trace("metrics pushed", "num sent", numSent)
}

func (p *udpPusher) send(m metrics.Metric) bool {
	line, err := p.formatter.Format(m)
	if errors.Is(err, ErrMetricFiltered) {
		return false
	}
	if err != nil {
		log.Debug("can not format metric", "name", m.Name, "error", err)
		return false
	}

	_, err = p.conn.Write([]byte(line))
	if err != nil {
		log.Warn("error sending metric", "name", m.Name, "error", err)
		return false
	}

	return true
}

// Address returns the remote DogStatsD address
func (p *udpPusher) Address() string {
	return p.conn.RemoteAddr().String()
}

// Close closes the UDP socket
func (p *udpPusher) Close() error {
	return p.conn.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *udpPusher) IsInterfaceNil() bool {
	return p == nil
}
