package tui

import (
	"strings"

	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var stageLabels = map[models.Stage]string{
	models.StageIdle:        "Подготовка",
	models.StageDumping:     "Чтение cookies",
	models.StageFiltering:   "Фильтрация",
	models.StageEncrypting:  "Шифрование",
	models.StageUploading:   "Загрузка в gist",
	models.StageDownloading: "Скачивание из gist",
	models.StageDecrypting:  "Расшифровка",
	models.StageApplying:    "Запись cookies",
}

func stageLabel(s models.Stage) string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// progressModel shows the stages of one sync run as they happen.
type progressModel struct {
	spinner   spinner.Model
	direction models.SyncDirection

	stages <-chan models.StageMessage
	result <-chan syncDoneMsg

	current models.Stage
	passed  []models.Stage

	done   bool
	quit   bool
	report models.SyncReport
	err    error
}

func newProgressModel(direction models.SyncDirection, stages <-chan models.StageMessage, result <-chan syncDoneMsg) progressModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return progressModel{
		spinner:   s,
		direction: direction,
		stages:    stages,
		result:    result,
	}
}

func waitForStage(ch <-chan models.StageMessage) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return stagesClosedMsg{}
		}
		return stageMsg(msg)
	}
}

func waitForResult(ch <-chan syncDoneMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForStage(m.stages), waitForResult(m.result))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) {
			m.quit = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stageMsg:
		if msg.Stage.Terminal() {
			return m, waitForStage(m.stages)
		}
		if m.current != "" && m.current != msg.Stage {
			m.passed = append(m.passed, m.current)
		}
		m.current = msg.Stage
		return m, waitForStage(m.stages)

	case stagesClosedMsg:
		return m, nil

	case syncDoneMsg:
		m.done = true
		m.report = msg.report
		m.err = msg.err
		if m.err == nil && m.current != "" {
			m.passed = append(m.passed, m.current)
			m.current = ""
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(viewTitle("cookiesync: " + string(m.direction)))
	for _, s := range m.passed {
		b.WriteString(okStyle.Render("✓"))
		b.WriteString(" ")
		b.WriteString(stageLabel(s))
		b.WriteString("\n")
	}

	switch {
	case m.done:
		if m.err != nil && m.current != "" {
			b.WriteString(errorStyle.Render("✗"))
			b.WriteString(" ")
			b.WriteString(stageLabel(m.current))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(RenderReport(m.report, m.err))
	case m.current != "":
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(stageLabel(m.current))
		b.WriteString("...\n\n")
		b.WriteString(helpStyle.Render("q: прервать"))
	default:
		b.WriteString(m.spinner.View())
		b.WriteString(" Синхронизация...\n")
	}

	return appStyle.Render(b.String()) + "\n"
}
