package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"emberline/internal/engine"
	"emberline/internal/ui"
)

// boardModel renders one month of the completion log for a selected task
// and lets the user toggle completions day by day.
type boardModel struct {
	ctx  context.Context
	sess *engine.Session

	width  int
	height int

	year  int
	month time.Month
	day   int // 1-based day cursor

	tasks    []engine.Task
	taskIdx  int
	snapshot engine.StreakSnapshot

	lastLog string
	err     error
}

type refreshedMsg struct {
	tasks    []engine.Task
	snapshot engine.StreakSnapshot
}

type toggledMsg struct {
	date engine.Date
	err  error
}

func newBoardModel(ctx context.Context, sess *engine.Session) boardModel {
	now := time.Now()
	return boardModel{
		ctx:     ctx,
		sess:    sess,
		year:    now.Year(),
		month:   now.Month(),
		day:     now.Day(),
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m boardModel) selectedTask() *engine.Task {
	if m.taskIdx < 0 || m.taskIdx >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.taskIdx]
}

func (m boardModel) refreshCmd() tea.Cmd {
	taskID := ""
	if t := m.selectedTask(); t != nil {
		taskID = t.ID
	}
	return func() tea.Msg {
		return refreshedMsg{
			tasks:    m.sess.Tasks(),
			snapshot: m.sess.Stats(taskID),
		}
	}
}

func (m boardModel) toggleCmd(date engine.Date) tea.Cmd {
	t := m.selectedTask()
	if t == nil {
		return nil
	}
	taskID := t.ID
	return func() tea.Msg {
		logged := false
		for _, r := range m.sess.RecordsOn(date) {
			if r.TaskID == taskID {
				logged = true
				break
			}
		}
		var err error
		if logged {
			err = m.sess.RemoveCompletion(m.ctx, date, taskID)
		} else {
			_, err = m.sess.LogCompletion(m.ctx, engine.LogInput{Date: date, TaskID: taskID})
		}
		return toggledMsg{date: date, err: err}
	}
}

func (m boardModel) cursorDate() engine.Date {
	return engine.DateOf(time.Date(m.year, m.month, m.day, 0, 0, 0, 0, time.Local))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case refreshedMsg:
		m.tasks = msg.tasks
		m.snapshot = msg.snapshot
		if m.taskIdx >= len(m.tasks) {
			m.taskIdx = len(m.tasks) - 1
		}
		if m.taskIdx < 0 {
			m.taskIdx = 0
		}
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Toggled %s.", msg.date)
		return m, m.refreshCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.lastLog = "Refreshing…"
			return m, m.refreshCmd()
		case "left", "h":
			if m.day > 1 {
				m.day--
			}
			return m, nil
		case "right", "l":
			if m.day < daysIn(m.year, m.month) {
				m.day++
			}
			return m, nil
		case "up", "k":
			if m.day > 7 {
				m.day -= 7
			}
			return m, nil
		case "down", "j":
			if m.day+7 <= daysIn(m.year, m.month) {
				m.day += 7
			}
			return m, nil
		case "[":
			prev := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
			m.year, m.month = prev.Year(), prev.Month()
			m.day = clampDay(m.day, m.year, m.month)
			return m, nil
		case "]":
			next := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0)
			m.year, m.month = next.Year(), next.Month()
			m.day = clampDay(m.day, m.year, m.month)
			return m, nil
		case "tab":
			if len(m.tasks) > 0 {
				m.taskIdx = (m.taskIdx + 1) % len(m.tasks)
			}
			return m, m.refreshCmd()
		case " ", "enter":
			if cmd := m.toggleCmd(m.cursorDate()); cmd != nil {
				return m, cmd
			}
			m.lastLog = "Add a task first."
			return m, nil
		}
	}
	return m, nil
}

func clampDay(day, year int, month time.Month) int {
	if max := daysIn(year, month); day > max {
		return max
	}
	return day
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	var b strings.Builder

	title := fmt.Sprintf("%s %d", m.month, m.year)
	b.WriteString(ui.Heading(ui.IconEmber, title))
	b.WriteString("\n")
	if t := m.selectedTask(); t != nil {
		marker := ""
		if t.IsArchived {
			marker = " " + ui.Muted.Render("(archived)")
		}
		b.WriteString(ui.LabelValue("Task", t.Name+marker))
	} else {
		b.WriteString(ui.Muted.Render("No tasks yet — press q, then `ember add`."))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n\n",
		ui.LabelValue("Streak", m.snapshot.Days),
		ui.LabelValue("Strength", fmt.Sprintf("%.1f", m.snapshot.Strength)),
		ui.LabelValue("Tier", ui.TierText(m.snapshot.Tier)),
	))

	b.WriteString(m.renderMonth())
	b.WriteString("\n")
	b.WriteString(ui.Muted.Render("←→↑↓ move · space toggle · tab next task · [ ] month · r refresh · q quit"))
	b.WriteString("\n")
	b.WriteString(ui.Muted.Render(m.lastLog))
	b.WriteString("\n")
	return b.String()
}

func (m boardModel) renderMonth() string {
	taskID := ""
	if t := m.selectedTask(); t != nil {
		taskID = t.ID
	}

	var b strings.Builder
	b.WriteString(ui.Muted.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.Local)
	// Monday-first column offset.
	offset := (int(first.Weekday()) + 6) % 7
	col := 0
	for i := 0; i < offset; i++ {
		b.WriteString("    ")
		col++
	}
	for day := 1; day <= daysIn(m.year, m.month); day++ {
		date := engine.DateOf(time.Date(m.year, m.month, day, 0, 0, 0, 0, time.Local))
		logged := false
		for _, r := range m.sess.RecordsOn(date) {
			if taskID == "" || r.TaskID == taskID {
				logged = true
				break
			}
		}
		cell := fmt.Sprintf("%3d", day)
		switch {
		case day == m.day:
			cell = ui.SelectedDay.Render(cell)
		case logged:
			cell = ui.Good.Render(cell)
		default:
			cell = ui.Muted.Render(cell)
		}
		b.WriteString(cell)
		b.WriteString(" ")
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	if col%7 != 0 {
		b.WriteString("\n")
	}
	return b.String()
}
