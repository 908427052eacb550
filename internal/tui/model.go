package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/engine"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/storage"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/ui"
)

// The engagement engine is single-writer, so every engine call happens
// synchronously in Update. Bubbletea runs returned commands on their own
// goroutines, which is why the only async command left is the task reload:
// it touches nothing but the sql.DB, which is safe for concurrent use. View
// renders engagement data captured into headerState during Update and never
// reads the engine from the render goroutine.
type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	tasks    []storage.Task
	selected int

	adding bool
	input  textinput.Model

	header  headerState
	lastLog string
	loading bool
	err     error
}

// headerState is the engagement snapshot View renders.
type headerState struct {
	levelName string
	level     int
	progress  int
	points    int
	streak    int
	unlock    *engine.Achievement
}

type loadedMsg struct {
	tasks []storage.Task
	err   error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	input := textinput.New()
	input.Placeholder = "task title"
	input.CharLimit = 120
	m := boardModel{
		ctx:     ctx,
		svc:     svc,
		input:   input,
		loading: true,
		lastLog: "Loaded.",
	}
	m.header = m.captureHeader()
	return m
}

func (m boardModel) captureHeader() headerState {
	eng := m.svc.Engagement()
	h := headerState{
		levelName: eng.LevelName(),
		level:     eng.Level(),
		progress:  eng.Progress(),
		points:    eng.Points(),
		streak:    eng.Streak(),
	}
	if a, ok := eng.PendingUnlock(); ok {
		h.unlock = &a
	}
	return h
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.svc.TaskRepo().ListOpen(m.ctx)
		return loadedMsg{tasks: tasks, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.tasks = msg.tasks
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "t":
			promos, err := m.svc.RunPromotions(m.ctx, time.Now())
			if err != nil {
				m.lastLog = "Tick failed: " + err.Error()
				return m, nil
			}
			if len(promos) == 0 {
				m.lastLog = "Nothing overdue."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Promoted %d task(s).", len(promos))
			return m, m.loadCmd()
		case "a":
			m.adding = true
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case "d":
			m.svc.Engagement().DismissUnlock()
			m.header = m.captureHeader()
			m.lastLog = "Dismissed."
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			lines := m.taskLines()
			if m.selected < len(lines)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ":
			lines := m.taskLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			res, err := m.svc.CompleteTask(m.ctx, lines[m.selected].id)
			if err != nil {
				m.lastLog = "Complete failed: " + err.Error()
				return m, nil
			}
			m.lastLog = completionLog(res)
			m.header = m.captureHeader()
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m boardModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		m.lastLog = "Add cancelled."
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if title == "" {
			m.lastLog = "Add cancelled."
			return m, nil
		}
		id, err := m.svc.CreateTask(m.ctx, engine.CreateTaskInput{Title: title, Lane: engine.DefaultLane})
		if err != nil {
			m.lastLog = "Add failed: " + err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Added #%d.", id)
		return m, m.loadCmd()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func completionLog(res *engine.CompleteResult) string {
	log := fmt.Sprintf("Completed %d: +%d pts (streak %d)", res.TaskID, res.Points, res.Streak)
	if res.NowCleared {
		log += ", now lane cleared"
	}
	if res.LevelUp {
		log += " " + ui.BadgeLevelUp
	}
	return log
}

type taskLine struct {
	id      int64
	subtask bool
	title   string
	lane    string
	overdue bool
}

// taskLines flattens open tasks into selectable rows: lanes most urgent
// first, subtasks under their parent.
func (m boardModel) taskLines() []taskLine {
	if len(m.tasks) == 0 {
		return nil
	}
	children := indexChildren(m.tasks)
	now := time.Now()

	var roots []storage.Task
	for _, t := range m.tasks {
		if t.ParentID == nil {
			roots = append(roots, t)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		ri := engine.Lane(roots[i].Lane).Rank()
		rj := engine.Lane(roots[j].Lane).Rank()
		if ri != rj {
			return ri > rj
		}
		return roots[i].ID < roots[j].ID
	})

	var out []taskLine
	for _, t := range roots {
		out = append(out, taskLine{
			id:      t.ID,
			title:   t.Title,
			lane:    t.Lane,
			overdue: t.DueAt != nil && !now.Before(*t.DueAt),
		})
		for _, kid := range children[t.ID] {
			c := findTask(m.tasks, kid)
			if c == nil {
				continue
			}
			out = append(out, taskLine{id: c.ID, subtask: true, title: c.Title, lane: c.Lane})
		}
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m boardModel) renderHeader() string {
	bar := ui.ProgressBar(m.header.progress, 30)
	header := fmt.Sprintf("I Get It Done | %s (lvl %d) %s | %d pts | streak %d %s",
		m.header.levelName, m.header.level, bar, m.header.points, m.header.streak, ui.IconFlame)
	if a := m.header.unlock; a != nil {
		header += "\n" + ui.BadgeUnlock + " " + a.Icon + " " + a.Title + " — " + a.Description + " (d to dismiss)"
	}
	return header
}

func (m boardModel) renderBoard() string {
	if m.loading {
		return "Loading…\n"
	}
	lines := m.taskLines()
	sel := m.selected
	if sel >= len(lines) {
		sel = len(lines) - 1
	}

	var out []string
	lastLane := ""
	for i, tl := range lines {
		if !tl.subtask && tl.lane != lastLane {
			out = append(out, ui.LaneIcon(tl.lane)+" "+ui.LaneText(tl.lane))
			lastLane = tl.lane
		}
		cursor := "  "
		if i == sel {
			cursor = "> "
		}
		indent := "  "
		if tl.subtask {
			indent = "    "
		}
		flag := ""
		if tl.overdue {
			flag = " " + ui.Warn.Render("overdue")
		}
		out = append(out, fmt.Sprintf("%s%s#%d %s%s", cursor, indent, tl.id, tl.title, flag))
	}
	if len(out) == 0 {
		out = append(out, "(no open tasks)")
	}
	return strings.Join(out, "\n") + "\n"
}

func (m boardModel) renderFooter() string {
	if m.adding {
		return "\nNew task: " + m.input.View() + "\n(enter to add, esc to cancel)"
	}
	keys := "j/k move · c complete · a add · t tick · d dismiss · r refresh · q quit"
	return "\n" + ui.Muted.Render(keys) + "\n" + m.lastLog
}

func findTask(tasks []storage.Task, id int64) *storage.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func indexChildren(tasks []storage.Task) map[int64][]int64 {
	children := map[int64][]int64{}
	for _, t := range tasks {
		if t.ParentID == nil {
			continue
		}
		children[*t.ParentID] = append(children[*t.ParentID], t.ID)
	}
	for k := range children {
		sort.Slice(children[k], func(i, j int) bool { return children[k][i] < children[k][j] })
	}
	return children
}
