package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/lineup"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
)

// Browser styles
var (
	bubbleSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan)
	bubbleNearStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	bubbleFarStyle      = lipgloss.NewStyle().Foreground(colorGray)
	captionStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// frameInterval is the animation tick of the browser.
	frameInterval = time.Second / 60

	// easing is the share of the remaining distance covered per frame.
	easing = 0.3

	// unitCols is the diameter of a reference-size bubble in columns.
	// Terminal cells are about twice as tall as wide, so one row spans
	// two columns of height.
	unitCols = 16

	// canvasRows bounds the bubble canvas height.
	canvasRows = 12

	defaultWidth = 80
)

// frameMsg drives the animation loop.
type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// =============================================================================
// browseModel - Interactive lineup browser
// =============================================================================

// browseModel scrolls a lineup with the keyboard. Key presses are user
// gestures; snaps and drives requested by the tracker are animated by
// easing the coordinate towards their target.
type browseModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	opts    pipeline.Options
	res     *pipeline.LayoutResult
	byID    map[int]entity.Entity
	tracker *scroll.Tracker

	step    float64  // scroll distance per arrow key
	anim    *float64 // coordinate being animated towards
	pending string   // digits typed before enter
	width   int
	err     error
	now     func() time.Time
}

func newBrowseModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, res *pipeline.LayoutResult, cfg scroll.Config) browseModel {
	m := browseModel{
		ctx:     ctx,
		runner:  runner,
		opts:    opts,
		res:     res,
		byID:    entity.ByID(res.Entities),
		tracker: scroll.NewTracker(cfg, res.Layout.Len()),
		width:   defaultWidth,
		now:     time.Now,
	}
	m.step = m.tracker.Spacing() / 4
	m.tracker.Jump(res.Layout.CenteredPosition, m.now())
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nextFrame()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 20)
	case frameMsg:
		m.animate(time.Time(msg))
		return m, nextFrame()
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.now()
	tr := m.tracker
	key := msg.String()

	switch key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.anim = nil
		m.apply(tr.Scroll(-m.step, now))
	case "right", "l":
		m.anim = nil
		m.apply(tr.Scroll(m.step, now))
	case "g", "home":
		m.apply(tr.Drive(0, now))
	case "G", "end":
		m.apply(tr.Drive(tr.Len()-1, now))
	case "tab":
		m.switchMetric(m.res.Metric.Next(), now)
	case "backspace":
		if m.pending != "" {
			m.pending = m.pending[:len(m.pending)-1]
		}
	case "enter":
		pos := scroll.Nearest(tr.Index(), tr.Len())
		if m.pending != "" {
			n, _ := strconv.Atoi(m.pending)
			pos = n - 1
			m.pending = ""
		}
		m.apply(tr.Drive(pos, now))
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.pending) < 6 {
			m.pending += key
		}
	}
	return m, nil
}

// apply reacts to a tracker event: snaps start an animation, settling
// ends it.
func (m *browseModel) apply(ev scroll.Event) {
	if ev.Snap {
		target := ev.Target
		m.anim = &target
	}
	if ev.Settled {
		m.anim = nil
	}
}

// animate advances the tracker clock and moves the coordinate one frame
// closer to the animation target.
func (m *browseModel) animate(now time.Time) {
	tr := m.tracker
	m.apply(tr.Tick(now))
	if m.anim == nil {
		return
	}
	target := *m.anim
	coord := tr.Coordinate()
	next := coord + (target-coord)*easing
	if math.Abs(target-next) < 0.25 {
		next = target
	}
	m.apply(tr.Observe(next, now))
}

// switchMetric re-lays the row out under metric m, keeping the entity
// nearest the current index in view.
func (m *browseModel) switchMetric(metric entity.Metric, now time.Time) {
	tr := m.tracker
	opts := m.opts
	opts.Metric = string(metric)
	opts.PreviousCentered = nil
	if id, ok := m.res.Layout.Index.IDAt(scroll.Nearest(tr.Index(), tr.Len())); ok {
		opts.PreviousCentered = &id
	}

	res, err := m.runner.Layout(m.ctx, m.res.Entities, opts)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.opts, m.res = opts, res
	m.anim = nil
	tr.Resize(res.Layout.Len())
	m.apply(tr.Jump(res.Layout.CenteredPosition, now))
}

// selectedID is the highlighted entity. During a drive it is the drive's
// target rather than whatever the row is passing through.
func (m browseModel) selectedID() (int, bool) {
	if m.tracker.Suppressed() {
		return m.res.Layout.Index.IDAt(m.tracker.TargetPosition())
	}
	return m.res.Layout.Selected(m.tracker.Index())
}

// centeredID is the entity to remember for the next run.
func (m browseModel) centeredID() (int, bool) {
	if id, ok := m.selectedID(); ok {
		return id, true
	}
	return m.res.Layout.Index.IDAt(scroll.Nearest(m.tracker.Index(), m.tracker.Len()))
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Bubblerow"))
	b.WriteString(StyleDim.Render(" · " + m.res.Metric.Label()))
	b.WriteString("\n\n")

	fr := m.res.Frame(m.tracker.Coordinate(), m.tracker.Spacing())
	b.WriteString(renderCanvas(fr, m.width))
	b.WriteString("\n")
	b.WriteString(m.caption())
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ scroll  g/G ends  tab metric  [n]⏎ go to  q quit"))

	return b.String()
}

func (m browseModel) caption() string {
	id, ok := m.selectedID()
	if !ok {
		return captionStyle.Render(StyleDim.Render("between entities"))
	}
	e := m.byID[id]
	pos, _ := m.res.Layout.Index.PositionOf(id)

	rows := [][]string{
		{"Name", e.Name},
		{m.res.Metric.Label(), formatValue(m.res.Metric.ValueOf(e))},
	}
	if m.res.Metric == entity.Turnover {
		rows = append(rows, []string{"Per day", formatValue(e.DailyTurnover())})
	}
	rows = append(rows, []string{"Rank", fmt.Sprintf("%d / %d", pos+1, m.res.Layout.Len())})

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray).PaddingRight(2)
			}
			if row == 0 {
				return bubbleSelectedStyle.Bold(true)
			}
			return StyleNumber
		})
	return captionStyle.Render(t.Render())
}

func (m browseModel) status() string {
	tr := m.tracker
	line := fmt.Sprintf("index %.2f · %s", tr.Index(), tr.State())
	if m.pending != "" {
		line += " · go to " + m.pending
	}
	out := StyleDim.Render(line)
	if m.err != nil {
		out += "  " + StyleWarning.Render(m.err.Error())
	}
	return out
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// =============================================================================
// Canvas
// =============================================================================

// renderCanvas draws the frame as bottom-aligned block circles, with the
// reference bubble centred horizontally.
func renderCanvas(fr lineup.Frame, width int) string {
	// owner holds the index into fr.Items drawn in each cell, -1 when empty.
	owner := make([][]int, canvasRows)
	for y := range owner {
		owner[y] = make([]int, width)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	centre := float64(width) / 2
	for i, it := range fr.Items {
		r := it.Scale * unitCols / 2
		if !(r > 0.25) {
			continue
		}
		cx := centre + it.Offset*unitCols
		if cx+r < 0 || cx-r > float64(width) {
			continue
		}
		x0, x1 := max(int(cx-r), 0), min(int(math.Ceil(cx+r)), width)
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			for y := range canvasRows {
				// y counts rows up from the baseline, in column units
				dy := float64(canvasRows-1-y)*2 + 1 - r
				if dx*dx+dy*dy <= r*r {
					owner[y][x] = i
				}
			}
		}
	}

	var b strings.Builder
	for y, row := range owner {
		var run strings.Builder
		cur := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(cellStyle(fr, cur).Render(run.String()))
			run.Reset()
		}
		for _, idx := range row {
			if idx != cur {
				flush()
				cur = idx
			}
			if idx < 0 {
				run.WriteByte(' ')
			} else {
				run.WriteString("█")
			}
		}
		flush()
		if y < len(owner)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// cellStyle styles a run of cells owned by fr.Items[idx]; idx < 0 is empty.
func cellStyle(fr lineup.Frame, idx int) lipgloss.Style {
	if idx < 0 {
		return lipgloss.NewStyle()
	}
	it := fr.Items[idx]
	switch {
	case fr.SelectedID != nil && *fr.SelectedID == it.ID:
		return bubbleSelectedStyle
	case it.Selection > 0:
		return bubbleNearStyle
	default:
		return bubbleFarStyle
	}
}
