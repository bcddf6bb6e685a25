package interactive

import (
	"fmt"
	"os"
	"time"

	"github.com/vdevs/vdevs-go/pkg/inspect"
)

func (s *Shell) cmdSnapshot(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: snapshot save|show <file>")
		return
	}

	switch args[0] {
	case "save":
		f, err := os.Create(args[1])
		if err != nil {
			s.printError(err)
			return
		}
		snap, err := s.inspector.SaveSnapshot(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintf(s.out, "Saved %d devices to %s\n", len(snap.Devices), args[1])

	case "show":
		f, err := os.Open(args[1])
		if err != nil {
			s.printError(err)
			return
		}
		defer f.Close()
		snap, err := inspect.LoadSnapshot(f)
		if err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintf(s.out, "Snapshot %s (interface %s)\n", snap.Taken.Format(time.RFC3339), snap.Interface)
		fmt.Fprint(s.out, s.formatter.FormatDevices(snap.Devices))

	default:
		fmt.Fprintf(s.out, "Unknown snapshot action: %s\n", args[0])
	}
}
