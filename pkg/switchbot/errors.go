package switchbot

import (
	"fmt"
)

// TransportError wraps a network-level failure: no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError indicates a response was received but its envelope did not
// carry the success sentinel, or could not be decoded at all.
type ProtocolError struct {
	Op      string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error during %s: %s", e.Op, e.Message)
}

// VendorRejection indicates a well-formed success envelope whose embedded
// status code is not the success code. The remote system owns retry policy
// for these, so callers log and surface them without escalating.
type VendorRejection struct {
	Code int
}

func (e *VendorRejection) Error() string {
	return fmt.Sprintf("vendor rejected command: %d (%s)", e.Code, CodeMessage(e.Code))
}

// Vendor result codes embedded in command acknowledgements.
const (
	CodeSuccess         = 100
	CodeTypeUnsupported = 151
	CodeDeviceNotFound  = 152
	CodeUnsupported     = 160
	CodeDeviceOffline   = 161
	CodeHubOffline      = 171
	CodeInternalError   = 190
)

// CodeMessage translates a vendor result code into its documented meaning.
func CodeMessage(code int) string {
	switch code {
	case CodeSuccess:
		return "command successfully sent"
	case CodeTypeUnsupported:
		return "command not supported by this device type"
	case CodeDeviceNotFound:
		return "device not found"
	case CodeUnsupported:
		return "command is not supported"
	case CodeDeviceOffline:
		return "device is offline"
	case CodeHubOffline:
		return "hub device is offline"
	case CodeInternalError:
		return "device internal error, states not synchronized with server or command format is invalid"
	default:
		return "unknown status code"
	}
}

// ClassifyAck turns a command acknowledgement into an error when the vendor
// declined it. A nil return means the command was accepted.
func ClassifyAck(ack *CommandAck) error {
	if ack.StatusCode == CodeSuccess {
		return nil
	}
	return &VendorRejection{Code: ack.StatusCode}
}
