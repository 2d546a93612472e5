package watch

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pollboard/internal/app"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/refresh"
)

// forwarder hands scheduler events to the program without blocking the
// refresh loop. Only the newest event is kept; the snapshot it carries
// supersedes anything older.
type forwarder struct {
	ch chan refresh.Event
}

func newForwarder() *forwarder {
	return &forwarder{ch: make(chan refresh.Event, 1)}
}

func (f *forwarder) publish(ev refresh.Event) {
	for {
		select {
		case f.ch <- ev:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// Run starts the refresh loop and the terminal dashboard, and returns when
// the user quits or ctx is cancelled.
func Run(ctx context.Context, session *app.Session, opts ...tea.ProgramOption) error {
	fwd := newForwarder()
	session.Subscribe(fwd.publish)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- session.Run(ctx)
	}()

	model := NewModel(session, fwd.ch, session.Renderer.Title(), session.Scheduler.Interval())
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(model, opts...)

	_, err := p.Run()
	cancel()
	loopErr := <-loopDone

	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrExec, "Terminal dashboard failed", "")
	}
	return loopErr
}
