// Package interactive provides the interactive command-line interface
// for vdevctl.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vdevs/vdevs-go/pkg/inspect"
	"github.com/vdevs/vdevs-go/pkg/registry"
	"github.com/vdevs/vdevs-go/pkg/vdev"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// Options configures a Shell.
type Options struct {
	// Gatherer backs the stats command. Nil disables it.
	Gatherer prometheus.Gatherer

	// Out replaces the readline terminal. When set, Run is unavailable and
	// commands are fed through Exec.
	Out io.Writer
}

// Shell handles interactive mode for vdevctl.
type Shell struct {
	reg       *registry.Registry
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	gatherer  prometheus.Gatherer
	rl        *readline.Instance
	out       io.Writer

	// session is the handle opened with the open command.
	session *vdev.Session
}

// New creates a new shell. Attach must be called before commands run.
func New(opts Options) (*Shell, error) {
	s := &Shell{
		formatter: inspect.NewFormatter(),
		gatherer:  opts.Gatherer,
		out:       opts.Out,
	}
	if s.out != nil {
		return s, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "vdev> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s.rl = rl
	s.out = rl.Stdout()
	return s, nil
}

// Attach sets the registry the shell operates on.
func (s *Shell) Attach(reg *registry.Registry) {
	s.reg = reg
	s.inspector = inspect.NewInspector(reg)
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	if s.rl != nil {
		return s.rl.Stderr()
	}
	return s.out
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	if s.rl == nil {
		cancel()
		return
	}
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			s.closeSession()
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if s.Exec(ctx, line) {
			cancel()
			return
		}
	}
}

// Exec runs one command line. It returns true when the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		s.cmdList()

	case "info":
		s.cmdInfo(args)

	case "open", "o":
		s.cmdOpen(args)

	case "close", "c":
		s.cmdClose()

	case "read", "r":
		s.cmdRead(args)

	case "write", "w":
		s.cmdWrite(input, args)

	case "seek":
		s.cmdSeek(args)

	case "fillzero":
		s.cmdIoctl([]string{"fillzero"})

	case "fillchar":
		s.cmdFillChar(args)

	case "ioctl":
		s.cmdIoctl(args)

	case "dump", "d":
		s.cmdDump(args)

	case "sum":
		s.cmdSum(args)

	case "attach":
		s.cmdAttach(args)

	case "detach":
		s.cmdDetach(args)

	case "snapshot":
		s.cmdSnapshot(args)

	case "stats":
		s.cmdStats()

	case "stress":
		s.cmdStress(ctx, args)

	case "quit", "exit", "q":
		s.closeSession()
		fmt.Fprintln(s.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
vdevctl Commands:
  Devices:
    list                          - List probed devices
    info <node>                   - Show one device
    attach <size> <perm> [serial] - Probe a new device (perm: rdonly, wronly, rdwr)
    detach <node>                 - Remove a device (fails while sessions are open)

  Session:
    open <node> <r|w|rw>          - Open a session
    close                         - Close the session
    read <n>                      - Read n bytes at the cursor
    write <text>                  - Write text at the cursor
    seek <off> [set|cur|end]      - Move the cursor
    fillzero                      - Fill the buffer with the sentinel byte
    fillchar <c>                  - Send the fill-char command
    ioctl <cmd> [arg]             - Send a raw command (name or number)

  Inspection:
    dump [node[/off[/len]]]       - Hex dump (defaults to the open device)
    sum [node]                    - BLAKE2b-256 of the buffer
    snapshot save|show <file>     - Save or show a CBOR device snapshot
    stats                         - Show operation counters
    stress <node> <workers> <n>   - Run concurrent sessions against a device

  Other:
    help                          - Show this help
    quit                          - Exit`)
}

func (s *Shell) printError(err error) {
	status := vdev.StatusOf(err)
	if status == wire.StatusFailure {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Error: %v [%s, errno %d]\n", err, status, int(status.Errno()))
}

func (s *Shell) requireSession() bool {
	if s.session == nil {
		fmt.Fprintln(s.out, "No open session (use 'open <node> <r|w|rw>')")
		return false
	}
	return true
}

func (s *Shell) closeSession() {
	if s.session != nil {
		_ = s.session.Close()
		s.session = nil
	}
}

func (s *Shell) lookupNode(arg string) (*vdev.Instance, bool) {
	id, err := inspect.ParseDeviceID(arg)
	if err != nil {
		s.printError(err)
		return nil, false
	}
	inst, err := s.reg.Lookup(id)
	if err != nil {
		s.printError(err)
		return nil, false
	}
	return inst, true
}

func (s *Shell) cmdList() {
	fmt.Fprint(s.out, s.formatter.FormatDevices(s.inspector.Devices()))
}

func (s *Shell) cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: info <node>")
		return
	}
	inst, ok := s.lookupNode(args[0])
	if !ok {
		return
	}
	info, err := s.inspector.Device(inst.ID())
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatDevice(info))
}

func (s *Shell) cmdOpen(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: open <node> <r|w|rw>")
		return
	}
	if s.session != nil {
		fmt.Fprintf(s.out, "Session already open on %s (use 'close' first)\n", s.session.Instance().Node())
		return
	}
	inst, ok := s.lookupNode(args[0])
	if !ok {
		return
	}
	mode, err := vdev.ParseAccessMode(args[1])
	if err != nil {
		s.printError(err)
		return
	}

	session, err := s.reg.Open(inst.ID(), mode)
	if err != nil {
		s.printError(err)
		return
	}
	s.session = session
	fmt.Fprintf(s.out, "Opened %s (%s), session %s\n", inst.Node(), mode, session.ID())
}

func (s *Shell) cmdClose() {
	if !s.requireSession() {
		return
	}
	node := s.session.Instance().Node()
	s.closeSession()
	fmt.Fprintf(s.out, "Closed %s\n", node)
}

func (s *Shell) cmdRead(args []string) {
	if !s.requireSession() {
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: read <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid count: %s\n", args[0])
		return
	}

	data, err := s.session.Read(n)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Read %d bytes: %q (offset %d)\n", len(data), data, s.session.Offset())
}

func (s *Shell) cmdWrite(input string, args []string) {
	if !s.requireSession() {
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: write <text>")
		return
	}
	// Keep the text exactly as typed after the command word.
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), strings.Fields(input)[0]))

	n, err := s.session.Write([]byte(text))
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Wrote %d of %d bytes (offset %d)\n", n, len(text), s.session.Offset())
}

func (s *Shell) cmdSeek(args []string) {
	if !s.requireSession() {
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: seek <off> [set|cur|end]")
		return
	}
	off, err := strconv.ParseInt(args[0], 0, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid offset: %s\n", args[0])
		return
	}
	whence := io.SeekStart
	if len(args) > 1 {
		switch strings.ToLower(args[1]) {
		case "set", "start":
			whence = io.SeekStart
		case "cur", "current":
			whence = io.SeekCurrent
		case "end":
			whence = io.SeekEnd
		default:
			fmt.Fprintf(s.out, "Invalid whence: %s (use: set, cur, end)\n", args[1])
			return
		}
	}

	pos, err := s.session.Seek(off, whence)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "New file position: %d\n", pos)
}

func (s *Shell) cmdFillChar(args []string) {
	if len(args) < 1 || len(args[0]) != 1 {
		fmt.Fprintln(s.out, "Usage: fillchar <c>")
		return
	}
	s.cmdIoctl([]string{"fillchar", strconv.Itoa(int(args[0][0]))})
}

func (s *Shell) cmdIoctl(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: ioctl <cmd> [arg]")
		for _, line := range inspect.CommandHelp() {
			fmt.Fprintf(s.out, "  %s\n", line)
		}
		return
	}
	if !s.requireSession() {
		return
	}
	cmd, ok := inspect.ResolveCommandName(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Unknown command: %s\n", args[0])
		return
	}
	var arg uint64
	if len(args) > 1 {
		v, err := strconv.ParseUint(args[1], 0, 64)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid argument: %s\n", args[1])
			return
		}
		arg = v
	}

	if err := s.session.Ioctl(cmd, uintptr(arg)); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "%s: ok (offset %d)\n", inspect.CommandName(cmd), s.session.Offset())
}

func (s *Shell) cmdDump(args []string) {
	var addr *inspect.Address
	switch {
	case len(args) > 0:
		a, err := inspect.ParseAddress(args[0])
		if err != nil {
			s.printError(err)
			return
		}
		addr = a
	case s.session != nil:
		addr = &inspect.Address{DeviceID: s.session.Instance().ID()}
	default:
		fmt.Fprintln(s.out, "Usage: dump <node[/off[/len]]>")
		return
	}

	rows, err := s.inspector.Dump(addr)
	if err != nil {
		s.printError(err)
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(s.out, "(empty range)")
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatDump(rows))
}

func (s *Shell) cmdSum(args []string) {
	var id int
	switch {
	case len(args) > 0:
		inst, ok := s.lookupNode(args[0])
		if !ok {
			return
		}
		id = inst.ID()
	case s.session != nil:
		id = s.session.Instance().ID()
	default:
		fmt.Fprintln(s.out, "Usage: sum <node>")
		return
	}

	sum, err := s.inspector.Digest(id)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "%s  %s\n", inspect.FormatDigest(sum[:]), vdev.NodeName(id))
}

func (s *Shell) cmdAttach(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: attach <size> <perm> [serial]")
		return
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid size: %s\n", args[0])
		return
	}
	perm, err := vdev.ParsePermission(args[1])
	if err != nil {
		s.printError(err)
		return
	}
	serial := ""
	if len(args) > 2 {
		serial = args[2]
	}

	inst, err := s.reg.Register(vdev.Config{Capacity: size, Permission: perm, SerialNumber: serial})
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Attached %s (%d bytes, %s)\n", inst.Node(), inst.Capacity(), inst.Permission())
}

func (s *Shell) cmdDetach(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: detach <node>")
		return
	}
	inst, ok := s.lookupNode(args[0])
	if !ok {
		return
	}
	if err := s.reg.Unregister(inst.ID()); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Detached %s\n", inst.Node())
}

func (s *Shell) cmdStats() {
	if s.gatherer == nil {
		fmt.Fprintln(s.out, "Metrics are not enabled")
		return
	}
	samples, err := metricsSnapshot(s.gatherer)
	if err != nil {
		s.printError(err)
		return
	}
	if len(samples) == 0 {
		fmt.Fprintln(s.out, "(no samples)")
		return
	}
	for _, sample := range samples {
		fmt.Fprintln(s.out, sample)
	}
}

func (s *Shell) cmdStress(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: stress <node> <workers> <iterations>")
		return
	}
	inst, ok := s.lookupNode(args[0])
	if !ok {
		return
	}
	workers, err1 := strconv.Atoi(args[1])
	iterations, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || workers <= 0 || iterations <= 0 {
		fmt.Fprintln(s.out, "workers and iterations must be positive integers")
		return
	}

	result, err := Stress(ctx, s.reg, inst.ID(), workers, iterations)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, result)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("list"),
		readline.PcItem("info"),
		readline.PcItem("open"),
		readline.PcItem("close"),
		readline.PcItem("read"),
		readline.PcItem("write"),
		readline.PcItem("seek",
			readline.PcItem("set"),
			readline.PcItem("cur"),
			readline.PcItem("end"),
		),
		readline.PcItem("fillzero"),
		readline.PcItem("fillchar"),
		readline.PcItem("ioctl",
			readline.PcItem("fillzero"),
			readline.PcItem("fillchar"),
		),
		readline.PcItem("dump"),
		readline.PcItem("sum"),
		readline.PcItem("attach"),
		readline.PcItem("detach"),
		readline.PcItem("snapshot",
			readline.PcItem("save"),
			readline.PcItem("show"),
		),
		readline.PcItem("stats"),
		readline.PcItem("stress"),
		readline.PcItem("quit"),
	)
}
