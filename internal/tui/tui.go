// Package tui renders sync progress and cookiesync state in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/service"
	"github.com/MKhiriev/go-cookie-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("синхронизация прервана пользователем")

// SyncFunc runs one sync reporting every stage to sink.
type SyncFunc func(ctx context.Context, sink service.StageSink) (models.SyncReport, error)

// stageBuffer is larger than the number of stages one run can emit.
const stageBuffer = 32

type TUI struct {
	out         io.Writer
	interactive bool
	logger      *logger.Logger
}

// New returns a TUI writing to out. When interactive is false progress is
// printed one line per stage instead of an animated view.
func New(out io.Writer, interactive bool, logger *logger.Logger) *TUI {
	return &TUI{out: out, interactive: interactive, logger: logger}
}

// RunSync runs fn while showing its progress. If the user quits the
// interactive view the run's context is cancelled, the run is awaited and
// [ErrUserQuit] is returned alongside whatever the run reported.
func (t *TUI) RunSync(ctx context.Context, direction models.SyncDirection, fn SyncFunc) (models.SyncReport, error) {
	if !t.interactive {
		return t.runPlain(ctx, fn)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stages := make(chan models.StageMessage, stageBuffer)
	result := make(chan syncDoneMsg, 1)
	go func() {
		report, err := fn(ctx, service.NewChanSink(stages))
		close(stages)
		result <- syncDoneMsg{report: report, err: err}
	}()

	model := newProgressModel(direction, stages, result)
	final, err := tea.NewProgram(model, tea.WithOutput(t.out), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		t.logger.Err(err).Str("func", "TUI.RunSync").Msg("progress view failed")
	}

	if m, ok := final.(progressModel); ok && m.done {
		return m.report, m.err
	}

	cancel()
	done := <-result
	if done.err == nil {
		return done.report, nil
	}
	return done.report, errors.Join(ErrUserQuit, done.err)
}

func (t *TUI) runPlain(ctx context.Context, fn SyncFunc) (models.SyncReport, error) {
	report, err := fn(ctx, newLineSink(t.out))
	fmt.Fprintln(t.out, RenderReport(report, err))
	return report, err
}

// lineSink prints each non-terminal stage on its own line.
type lineSink struct {
	mu  sync.Mutex
	out io.Writer
}

func newLineSink(out io.Writer) *lineSink {
	return &lineSink{out: out}
}

func (s *lineSink) Emit(msg models.StageMessage) {
	if msg.Stage.Terminal() || msg.Stage == models.StageIdle {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "→ %s\n", stageLabel(msg.Stage))
}

// Print writes a rendered view followed by a newline.
func (t *TUI) Print(view string) {
	fmt.Fprintln(t.out, view)
}
