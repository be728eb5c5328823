package reader

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	serial "go.bug.st/serial.v1"

	errs "github.com/digiclever/dispenser/internal/domain/error"
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

// APDU frames understood by the reader firmware. The phone select is tried
// first so a handset emulating a card wins over its embedded secure element.
var (
	// apduSelectPhone selects the companion app AID on a phone
	apduSelectPhone = []byte{0x00, 0xA4, 0x04, 0x00, 0x07, 0xF0, 0x01, 0x02, 0x03, 0x03, 0x02, 0x01, 0x00}
	// apduGetUID asks a contactless card for its uid
	apduGetUID = []byte{0xFF, 0xCA, 0x00, 0x00, 0x00}
)

// Status word trailer of a successful APDU exchange
const (
	sw1OK = 0x90
	sw2OK = 0x00
)

const responseBufferSize = 64

// Config holds the serial link settings
type Config struct {
	Port     string
	BaudRate int
}

// SerialReader drives an NFC reader over a serial link. One ReadIdentity call
// is one detection attempt: the phone handshake first, then the card uid
// fallback. Exchanges are serialized; the link carries one APDU at a time.
type SerialReader struct {
	mu     sync.Mutex
	port   serial.Port
	logger coreport.Logger
}

// NewSerialReader opens the serial port and returns the reader
func NewSerialReader(cfg Config, logger coreport.Logger) (*SerialReader, error) {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 115200
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open reader port %s: %w", cfg.Port, err)
	}

	logger.Info("Reader port opened", map[string]any{
		"port":      cfg.Port,
		"baud_rate": cfg.BaudRate,
	})

	return &SerialReader{
		port:   port,
		logger: logger,
	}, nil
}

// ReadIdentity attempts one detection handshake within the timeout. Every
// failure mode collapses to ErrReaderTimeout; the scan loop retries anyway.
func (r *SerialReader) ReadIdentity(ctx context.Context, timeout coreport.Duration) (coreport.DeviceIdentity, error) {
	deadline, cancel := context.WithTimeout(ctx, timeout.Std())
	defer cancel()

	type result struct {
		identity coreport.DeviceIdentity
		err      error
	}
	done := make(chan result, 1)

	go func() {
		identity, err := r.handshake()
		done <- result{identity: identity, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return coreport.DeviceIdentity{}, res.err
		}
		return res.identity, nil
	case <-deadline.Done():
		return coreport.DeviceIdentity{}, errs.ErrReaderTimeout
	}
}

// handshake runs the phone-first detection sequence
func (r *SerialReader) handshake() (coreport.DeviceIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A phone answers the AID select with its payload uid
	if payload, err := r.transmit(apduSelectPhone); err == nil && len(payload) > 0 {
		return coreport.DeviceIdentity{
			UID:               hex.EncodeToString(payload),
			HardwareSignature: hex.EncodeToString(payload),
		}, nil
	}

	payload, err := r.transmit(apduGetUID)
	if err != nil || len(payload) == 0 {
		return coreport.DeviceIdentity{}, errs.ErrReaderTimeout
	}

	return coreport.DeviceIdentity{
		UID:               hex.EncodeToString(payload),
		HardwareSignature: hex.EncodeToString(payload),
	}, nil
}

// transmit writes one APDU and reads the response, returning the payload
// without the status word trailer
func (r *SerialReader) transmit(apdu []byte) ([]byte, error) {
	if _, err := r.port.Write(apdu); err != nil {
		r.logger.Warn("Reader write failed", map[string]any{
			"error": err.Error(),
		})
		return nil, errs.ErrReaderTimeout
	}

	buf := make([]byte, responseBufferSize)
	n, err := r.port.Read(buf)
	if err != nil {
		r.logger.Warn("Reader read failed", map[string]any{
			"error": err.Error(),
		})
		return nil, errs.ErrReaderTimeout
	}

	response := buf[:n]
	if len(response) < 2 {
		return nil, errs.ErrReaderTimeout
	}
	if response[len(response)-2] != sw1OK || response[len(response)-1] != sw2OK {
		return nil, errs.ErrReaderTimeout
	}

	return response[:len(response)-2], nil
}

// Close releases the serial port
func (r *SerialReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.port.Close()
}
