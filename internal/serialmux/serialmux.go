// Package serialmux provides the external multiplexed serial transport
// of the robot: line-based telemetry going out, remote commands coming
// in, with multiple in-process clients able to subscribe to the inbound
// stream. The control loop itself never blocks on the port; the monitor
// runs in its own goroutine and feeds buffered subscriber channels.
package serialmux

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrWriteFailed = fmt.Errorf("failed to write to serial port")

// subscriberBuffer is the per-subscriber channel capacity. The control
// loop drains its channel non-blockingly once per tick, so a small
// buffer bridges the cadence difference; excess lines are dropped rather
// than blocking the monitor.
const subscriberBuffer = 16

// SerialMux is a generic serial port multiplexer that fans inbound lines
// out to subscribers and serialises outbound writes.
type SerialMux[T SerialPorter] struct {
	port         T
	subscribers  map[string]chan string
	subscriberMu sync.Mutex
	writeMu      sync.Mutex
	closing      bool
	closingMu    sync.Mutex
}

// Muxer is the interface consumed by the application layer.
type Muxer interface {
	// Subscribe creates a buffered channel receiving inbound lines. The
	// returned ID identifies the subscription for Unsubscribe.
	Subscribe() (string, chan string)

	// Unsubscribe removes and closes a subscription channel.
	Unsubscribe(string)

	// SendLine writes one line to the serial port, appending the
	// newline if missing.
	SendLine(string) error

	// Monitor reads lines from the serial port and fans them out to
	// subscribers until the context is cancelled or the port fails.
	Monitor(context.Context) error

	// Close closes all subscriptions and the port.
	Close() error
}

// NewSerialMux creates a SerialMux backed by the given port.
func NewSerialMux[T SerialPorter](port T) *SerialMux[T] {
	return &SerialMux[T]{
		port:        port,
		subscribers: make(map[string]chan string),
	}
}

// Subscribe registers a new inbound-line subscriber.
func (s *SerialMux[T]) Subscribe() (string, chan string) {
	id := uuid.NewString()
	ch := make(chan string, subscriberBuffer)
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber from the mux.
func (s *SerialMux[T]) Unsubscribe(id string) {
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}

// SendLine writes one line to the serial port.
func (s *SerialMux[T]) SendLine(line string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	n, err := s.port.Write([]byte(line))
	if err != nil {
		return err
	}
	if n != len(line) {
		return ErrWriteFailed
	}
	return nil
}

// Monitor reads lines from the serial port and fans them out. The
// blocking reads happen in an inner goroutine so context cancellation is
// honoured even mid-read.
func (s *SerialMux[T]) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(s.port)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				return scan.Err()
			}

			s.closingMu.Lock()
			if s.closing {
				s.closingMu.Unlock()
				return nil
			}
			s.closingMu.Unlock()

			s.subscriberMu.Lock()
			for _, ch := range s.subscribers {
				select {
				case ch <- line:
				default:
					// Subscriber is not keeping up; drop rather than
					// block the monitor.
				}
			}
			s.subscriberMu.Unlock()
		}
	}
}

// Close closes all subscriptions and the underlying port.
func (s *SerialMux[T]) Close() error {
	s.closingMu.Lock()
	s.closing = true
	s.closingMu.Unlock()

	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	return s.port.Close()
}
