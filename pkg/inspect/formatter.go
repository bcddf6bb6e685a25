package inspect

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vdevs/vdevs-go/pkg/vdev"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowSerial includes the serial number column.
	ShowSerial bool

	// HumanSizes renders capacities as KiB/MiB.
	HumanSizes bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowSerial:  true,
		HumanSizes:  false,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatSize formats a byte count.
func (f *Formatter) FormatSize(n int) string {
	if !f.HumanSizes {
		return fmt.Sprintf("%d", n)
	}
	return FormatBytesHumanReadable(n)
}

// FormatBytesHumanReadable formats a byte count with a binary unit.
func FormatBytesHumanReadable(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatPermission formats a wire permission value.
func FormatPermission(p uint8) string {
	return vdev.Permission(p).String()
}

// FormatDevices renders device snapshots as a table.
func (f *Formatter) FormatDevices(infos []wire.DeviceInfo) string {
	if len(infos) == 0 {
		return "(no devices)\n"
	}

	var sb strings.Builder
	header := fmt.Sprintf("%-10s %10s %10s %-7s %8s", "NODE", "SIZE", "USED", "PERM", "SESSIONS")
	if f.ShowSerial {
		header += "  SERIAL"
	}
	sb.WriteString(header + "\n")

	for _, info := range infos {
		line := fmt.Sprintf("%-10s %10s %10s %-7s %8d",
			info.Node,
			f.FormatSize(info.Capacity),
			f.FormatSize(info.DataLen),
			FormatPermission(info.Permission),
			info.OpenSessions)
		if f.ShowSerial {
			line += "  " + info.SerialNumber
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// FormatDevice renders one device snapshot as indented key/value lines.
func (f *Formatter) FormatDevice(info wire.DeviceInfo) string {
	var sb strings.Builder
	sb.WriteString(info.Node + "\n")
	sb.WriteString(f.Indent(1, fmt.Sprintf("id:         %d\n", info.ID)))
	sb.WriteString(f.Indent(1, fmt.Sprintf("capacity:   %s\n", f.FormatSize(info.Capacity))))
	sb.WriteString(f.Indent(1, fmt.Sprintf("data:       %s\n", f.FormatSize(info.DataLen))))
	sb.WriteString(f.Indent(1, fmt.Sprintf("permission: %s\n", FormatPermission(info.Permission))))
	sb.WriteString(f.Indent(1, fmt.Sprintf("sessions:   %d\n", info.OpenSessions)))
	if f.ShowSerial && info.SerialNumber != "" {
		sb.WriteString(f.Indent(1, fmt.Sprintf("serial:     %s\n", info.SerialNumber)))
	}
	return sb.String()
}

// FormatDump renders rows as offset, hex bytes and an ASCII gutter.
func (f *Formatter) FormatDump(rows []DumpRow) string {
	var sb strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&sb, "%08x  ", row.Offset)
		for j := 0; j < BytesPerRow; j++ {
			if j < len(row.Data) {
				fmt.Fprintf(&sb, "%02x ", row.Data[j])
			} else {
				sb.WriteString("   ")
			}
			if j == BytesPerRow/2-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(" |")
		for _, b := range row.Data {
			sb.WriteByte(printable(b))
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}

// FormatDigest renders a digest as lower-case hex.
func FormatDigest(sum []byte) string {
	return hex.EncodeToString(sum)
}

func printable(b byte) byte {
	if b < 0x20 || b > 0x7e {
		return '.'
	}
	return b
}
