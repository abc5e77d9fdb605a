package frame

import (
	"strings"
)

// Marker every received frame line from the adapter starts with
const Marker = "Received: ID " + IDPrefix

const (
	idToken   = 2
	dataToken = 4
)

// Encode builds an outgoing frame from user input. The identifier gets the
// hex prefix if it lacks one and every data slot not supplied, or supplied
// empty, becomes "00". Values past the eighth slot are ignored.
func Encode(rawID string, rawBytes []string) (CANFrame, error) {
	id := strings.TrimSpace(rawID)
	if id == "" {
		return CANFrame{}, &ValidationError{Field: "identifier", Err: ErrEmptyID}
	}
	if !strings.HasPrefix(id, IDPrefix) {
		id = IDPrefix + id
	}
	data := make([]string, MaxDataLen)
	for i := range data {
		data[i] = EmptyByte
		if i < len(rawBytes) {
			if b := strings.TrimSpace(rawBytes[i]); b != "" {
				data[i] = b
			}
		}
	}
	return CANFrame{ID: id, Data: data}, nil
}

// Serialize returns "<id> <b0> ... <bN>" without line terminator
func Serialize(f CANFrame) string {
	var out strings.Builder
	out.WriteString(f.ID)
	for _, b := range f.Data {
		out.WriteByte(' ')
		out.WriteString(b)
	}
	return out.String()
}

// IsFrameLine reports whether the line is a received frame report
func IsFrameLine(line string) bool {
	return strings.HasPrefix(line, Marker)
}

// Decode parses a "Received: ID 0x1A3 DLC 2 11 22" style line. Lines that are
// not frame reports returns ErrNotFrame. A report without identifier digits,
// such as "Received: ID 0x", is a *ParseError. Only the bytes actually
// reported are returned, at most 8, there is no padding.
func Decode(line string) (CANFrame, error) {
	line = strings.TrimSpace(strings.ToValidUTF8(line, ""))
	if !IsFrameLine(line) {
		return CANFrame{}, ErrNotFrame
	}
	parts := strings.Fields(line)
	if len(parts) <= idToken || parts[idToken] == IDPrefix {
		return CANFrame{}, &ParseError{Line: line, Reason: "missing identifier"}
	}
	var data []string
	if len(parts) > dataToken {
		data = parts[dataToken:]
	}
	if len(data) > MaxDataLen {
		data = data[:MaxDataLen]
	}
	return New(parts[idToken], data), nil
}
