package core

import "context"

// DeviceIdentity is what the reader extracts from a device presented to it:
// the unique hardware identifier plus an opaque hardware signature (the ATR
// for smartcards).
type DeviceIdentity struct {
	UID               string
	HardwareSignature string
}

// IsZero reports whether no identity has been captured
func (d DeviceIdentity) IsZero() bool {
	return d.UID == ""
}

// CardReader is the hardware capability consumed by the scan loop: one call
// attempts one handshake with whichever device is currently present.
//
// Implementations must return ErrReaderTimeout when no device is present or
// when identity extraction fails within the timeout budget; any other I/O
// failure is treated the same way by the caller and retried on the next poll.
type CardReader interface {
	// ReadIdentity attempts to detect a device and extract its identity
	// within the given timeout
	ReadIdentity(ctx context.Context, timeout Duration) (DeviceIdentity, error)
}
