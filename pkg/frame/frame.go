package frame

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	// IDPrefix marks an identifier as hexadecimal
	IDPrefix = "0x"
	// MaxDataLen is the number of data slots in a classic CAN frame
	MaxDataLen = 8
	// EmptyByte is used for data slots that was not supplied on encode
	EmptyByte = "00"
)

// CANFrame is one frame as it travels on the serial line. Identifier and
// data are kept as the hex text the user or the adapter produced, no numeric
// conversion takes place.
type CANFrame struct {
	ID   string   `json:"id"`
	Data []string `json:"data"`
}

// New creates a new CANFrame and copies the data slice
func New(id string, data []string) CANFrame {
	d := make([]string, len(data))
	copy(d, data)
	return CANFrame{ID: id, Data: d}
}

// Returns the number of populated data slots
func (f CANFrame) Length() int {
	return len(f.Data)
}

// String returns the frame in the outbound wire format
func (f CANFrame) String() string {
	return Serialize(f)
}

var (
	yellow = color.New(color.FgHiBlue).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
)

func (f CANFrame) ColorString() string {
	var out strings.Builder
	out.WriteString(green("%-6s", f.ID) + " || ")
	out.WriteString(fmt.Sprintf("%d", len(f.Data)) + " || ")
	out.WriteString(yellow("%-23s", strings.Join(f.Data, " ")))
	return out.String()
}
