package viz

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/scadsim/internal/physics"
)

type Options struct {
	Title  string
	Steps  int
	Input  io.Reader
	Output io.Writer
}

// Terminal runs a [Dashboard] in its own goroutine and feeds it frames.
type Terminal struct {
	prog *tea.Program
	done chan struct{}

	mu     sync.Mutex
	err    error
	closed bool
}

func NewTerminal(opts Options) *Terminal {
	popts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}

	t := &Terminal{
		prog: tea.NewProgram(NewDashboard(opts.Title, opts.Steps), popts...),
		done: make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		final, err := t.prog.Run()
		t.mu.Lock()
		defer t.mu.Unlock()
		t.err = err
		if d, ok := final.(Dashboard); ok && d.Closed() {
			t.closed = true
		}
	}()
	return t
}

// Factory returns a visualizer factory for physics.Engine.
func Factory(opts Options) physics.VisualizerFactory {
	return func() (physics.Visualizer, error) {
		return NewTerminal(opts), nil
	}
}

func (t *Terminal) Render(f physics.Frame) error {
	select {
	case <-t.done:
		return physics.ErrWindowClosed
	default:
	}
	t.prog.Send(frameMsg(f))
	return nil
}

func (t *Terminal) Close() error {
	t.prog.Quit()
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return physics.ErrWindowClosed
	}
	return t.err
}
