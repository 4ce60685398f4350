package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"newsdeck/internal/aggregate"
	"newsdeck/internal/browser"
	"newsdeck/internal/catalog"
	"newsdeck/internal/config"
	"newsdeck/internal/feed"
	"newsdeck/internal/prefs"
	"newsdeck/internal/resolve"
)

// App is the presentation layer. It only consumes aggregation results and
// the category filter, and drives the core through its two triggers: refresh
// and category switch.
type App struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	prefs   *prefs.Preferences
	sched   *feed.Scheduler

	result   aggregate.Result
	view     []feed.Article
	category string
	cursor   int

	width  int
	height int

	spinner  spinner.Model
	progress progress.Model

	refreshing bool
	completed  int
	total      int
	notice     string
	err        error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg       *config.Config
	Catalog   *catalog.Catalog
	Prefs     *prefs.Preferences
	Scheduler *feed.Scheduler
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	pb := progress.New(progress.WithDefaultGradient())
	pb.Width = 20

	return &App{
		cfg:      opts.Cfg,
		catalog:  opts.Catalog,
		prefs:    opts.Prefs,
		sched:    opts.Scheduler,
		category: aggregate.All,
		result:   aggregate.Result{PresentCategories: []string{aggregate.All}},
		spinner:  sp,
		progress: pb,
	}
}

// Run launches the TUI and wires scheduler progress into the event loop.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	opts.Scheduler.OnProgress = func(completed, total int) {
		p.Send(progressMsg{completed: completed, total: total})
	}
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.startRefresh(), a.spinner.Tick)
}

// startRefresh kicks off a refresh cycle. Admission rejections come back as
// refreshErrMsg and are surfaced (rate limit) or swallowed (in progress).
func (a *App) startRefresh() tea.Cmd {
	a.refreshing = true
	a.completed = 0
	a.total = 0
	a.notice = ""

	sched := a.sched
	active := resolve.ActiveSources(a.prefs, a.catalog)
	limit := a.cfg.ArticleCap()
	return func() tea.Msg {
		articles, err := sched.Refresh(context.Background(), active)
		if err != nil {
			return refreshErrMsg{err: err}
		}
		return refreshDoneMsg{result: aggregate.Aggregate(articles, limit)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if !a.refreshing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case progressMsg:
		a.completed = msg.completed
		a.total = msg.total
		return a, nil

	case refreshDoneMsg:
		a.refreshing = false
		a.result = msg.result
		if !a.hasCategory(a.category) {
			a.category = aggregate.All
		}
		a.applyFilter()
		return a, nil

	case refreshErrMsg:
		a.refreshing = false
		var rl *feed.RateLimitedError
		switch {
		case errors.As(msg.err, &rl):
			a.notice = fmt.Sprintf("refreshed recently, try again in %s", rl.Wait.Round(time.Second))
		case errors.Is(msg.err, feed.ErrAlreadyInProgress):
			// a cycle is still running; ignore
		default:
			a.err = msg.err
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "r":
		if a.refreshing {
			return a, nil
		}
		return a, tea.Batch(a.startRefresh(), a.spinner.Tick)

	case "right", "tab", "l":
		a.switchCategory(1)
	case "left", "shift+tab", "h":
		a.switchCategory(-1)

	case "down", "j":
		if a.cursor < len(a.view)-1 {
			a.cursor++
		}
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}

	case "enter", "o":
		if a.cursor < len(a.view) {
			if err := browser.Open(a.view[a.cursor].URL); err != nil {
				a.notice = "could not open link"
			}
		}
	}
	return a, nil
}

func (a *App) hasCategory(key string) bool {
	for _, c := range a.result.PresentCategories {
		if c == key {
			return true
		}
	}
	return false
}

// switchCategory moves the active tab by delta, wrapping around.
func (a *App) switchCategory(delta int) {
	cats := a.result.PresentCategories
	if len(cats) == 0 {
		return
	}
	idx := 0
	for i, c := range cats {
		if c == a.category {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(cats)) % len(cats)
	a.category = cats[idx]
	a.applyFilter()
}

func (a *App) applyFilter() {
	a.view = aggregate.Filter(a.result, a.category)
	a.cursor = 0
}

func (a *App) categoryLabel(key string) string {
	if key == aggregate.All {
		return "All"
	}
	meta := a.catalog.Meta(key)
	return meta.Icon + " " + meta.Name
}

func (a *App) renderTabs() string {
	var tabs []string
	for _, key := range a.result.PresentCategories {
		label := a.categoryLabel(key)
		if key == a.category {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(strings.Join(tabs, " "))
}

func (a *App) refreshStatus() string {
	if !a.refreshing {
		return ""
	}
	if a.total == 0 {
		return a.spinner.View() + " fetching"
	}
	return fmt.Sprintf("%s %s %d/%d",
		a.spinner.View(),
		a.progress.ViewAs(float64(a.completed)/float64(a.total)),
		a.completed, a.total)
}

func (a *App) View() string {
	if a.err != nil {
		return fmt.Sprintf("error: %v\n\npress q to quit\n", a.err)
	}
	if a.width == 0 {
		return "loading..."
	}

	header := headerStyle.Render("newsdeck") + "  " +
		headerCountStyle.Render(fmt.Sprintf("%d unique of %d fetched", a.result.UniqueCount, a.result.TotalRaw))

	tabs := a.renderTabs()

	chrome := 4 // header, tabs, blank, statusbar
	listHeight := a.height - chrome
	if listHeight < 3 {
		listHeight = 3
	}
	list := renderList(a.view, a.cursor, listHeight, a.width)

	status := renderStatusBar(len(a.view), a.categoryLabel(a.category), a.notice, a.refreshStatus(), a.width)

	body := lipgloss.NewStyle().Height(listHeight).Render(list)
	return header + "\n" + tabs + "\n" + body + "\n" + status
}
