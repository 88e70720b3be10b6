// Package shell implements lngkit's interactive menu as a line-based command
// loop: read one command, run it, repeat until exit or end of input.
//
// With HandleInterrupts, Ctrl+C at a prompt leaves the current loop: inside
// the rename loop or the pause after a report it returns to the menu, and at
// the menu it ends the session.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/minios-linux/lngkit/i18n"
)

// Actions are the operations the menu dispatches to.
type Actions struct {
	// Unused prints the unused-key report to w.
	Unused func(w io.Writer) error
	// Rename renames source to target.
	Rename func(source, target string) error
	// Recoverable reports whether a Rename error should be shown and the
	// loop continued rather than aborting the shell.
	Recoverable func(err error) bool
}

var (
	// errEOF ends the shell when input runs out mid-command.
	errEOF = errors.New("end of input")
	// errInterrupt leaves the loop that was waiting for input.
	errInterrupt = errors.New("interrupted")
)

type line struct {
	text string
	err  error
}

// Shell is an interactive session over a reader/writer pair.
type Shell struct {
	in         *bufio.Scanner
	out        io.Writer
	actions    Actions
	log        *slog.Logger
	interrupts <-chan os.Signal

	lines chan line
	stop  chan struct{}
}

// New returns a shell reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, actions Actions, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		in:      bufio.NewScanner(in),
		out:     out,
		actions: actions,
		log:     logger,
	}
}

// HandleInterrupts makes signals received on ch cancel the prompt being
// answered instead of killing the process.
func (s *Shell) HandleInterrupts(ch <-chan os.Signal) {
	s.interrupts = ch
}

type command int

const (
	cmdUnknown command = iota
	cmdUnused
	cmdRename
	cmdExit
)

func parseCommand(line string) command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "1", "u", "unused":
		return cmdUnused
	case "2", "r", "rename", "update":
		return cmdRename
	case "3", "q", "quit", "exit":
		return cmdExit
	}
	return cmdUnknown
}

// Run shows the menu and dispatches commands until exit or end of input,
// both of which return nil. A failing action aborts with its error.
func (s *Shell) Run() error {
	s.lines = make(chan line)
	s.stop = make(chan struct{})
	defer close(s.stop)
	go s.read()

	for {
		s.menu()
		line, err := s.readLine("> ")
		if err != nil {
			return s.done(err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch parseCommand(line) {
		case cmdUnused:
			err = s.unused()
		case cmdRename:
			err = s.rename()
		case cmdExit:
			return nil
		default:
			fmt.Fprintln(s.out, i18n.T("Unknown command %q", strings.TrimSpace(line)))
		}
		if err != nil {
			return s.done(err)
		}
	}
}

func (s *Shell) done(err error) error {
	if errors.Is(err, errEOF) || errors.Is(err, errInterrupt) {
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}

func (s *Shell) menu() {
	fmt.Fprintln(s.out)
	for i, label := range []string{
		i18n.T("Print unused keys"),
		i18n.T("Update key"),
		i18n.T("Exit (or Ctrl+C)"),
	} {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, label)
	}
}

// read feeds input lines to readLine so a prompt can also wait on interrupts.
func (s *Shell) read() {
	for s.in.Scan() {
		select {
		case s.lines <- line{text: s.in.Text()}:
		case <-s.stop:
			return
		}
	}
	err := errEOF
	if scanErr := s.in.Err(); scanErr != nil {
		err = fmt.Errorf("reading input: %w", scanErr)
	}
	select {
	case s.lines <- line{err: err}:
	case <-s.stop:
	}
}

func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	// A pending interrupt wins over input that is already buffered.
	select {
	case <-s.interrupts:
		fmt.Fprintln(s.out)
		return "", errInterrupt
	default:
	}

	select {
	case l := <-s.lines:
		return l.text, l.err
	case <-s.interrupts:
		fmt.Fprintln(s.out)
		return "", errInterrupt
	}
}

func (s *Shell) unused() error {
	if err := s.actions.Unused(s.out); err != nil {
		return err
	}
	_, err := s.readLine(i18n.T("Press Enter to continue..."))
	if errors.Is(err, errInterrupt) {
		return nil
	}
	return err
}

// rename keeps asking for key pairs until an empty source line.
func (s *Shell) rename() error {
	for {
		source, err := s.readLine(i18n.T("Source: "))
		if errors.Is(err, errInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		source = strings.TrimSpace(source)
		if source == "" {
			return nil
		}

		target, err := s.readLine(i18n.T("Target: "))
		if errors.Is(err, errInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		target = strings.TrimSpace(target)

		if err := s.actions.Rename(source, target); err != nil {
			if s.actions.Recoverable != nil && s.actions.Recoverable(err) {
				s.log.Warn("rename skipped", "err", err)
				continue
			}
			return err
		}
		fmt.Fprintln(s.out, i18n.T("Renamed %q to %q", source, target))
	}
}
