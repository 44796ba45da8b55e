package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/gallery"
	"github.com/five82/frame/internal/prefs"
	"github.com/five82/frame/internal/session"
	"github.com/five82/frame/internal/state"
	"github.com/five82/frame/internal/validate"
)

const defaultTick = time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Gallery   *gallery.Service
	Session   *session.Manager
	Logger    *zap.Logger
	LogPath   string
	Prefs     prefs.Prefs
	PrefsPath string
	APIURL    string
	Tick      time.Duration // snapshot refresh; defaults to one second
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	gallery   *gallery.Service
	session   *session.Manager
	logger    *zap.Logger
	logPath   string
	prefs     prefs.Prefs
	prefsPath string
	apiURL    string
	tick      time.Duration
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	route  session.Route

	// Auth forms
	login    form
	register form

	// Gallery state
	snapshot  state.Snapshot
	cursor    int
	scrollRow int
	grabbed   string // id of the image being carried, empty when none
	pending   map[gallery.Op]bool

	// Overlays
	modal        Modal
	showHelp     bool
	showLogs     bool
	logViewport  viewport.Model
	currentToast *toastState
	toastSeq     int
}

// New creates a new Bubble Tea model. The first screen is whatever the
// session gate allows for the gallery.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		gallery:   opts.Gallery,
		session:   opts.Session,
		logger:    logger,
		logPath:   opts.LogPath,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		apiURL:    opts.APIURL,
		tick:      tick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		login:     newLoginForm(),
		register:  newRegisterForm(),
		pending:   make(map[gallery.Op]bool),
	}
	m = m.navigate(session.RouteGallery)
	m.snapshot = m.gallery.Store().Snapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.tick),
		textinput.Blink,
	}
	if m.route == session.RouteGallery {
		cmds = append(cmds, m.runOp(m.gallery.Load))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport(m.contentHeight())
		m.scrollRow = firstVisibleRow(m.cursor, m.columns(), m.visibleRows(), m.scrollRow)
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		// Older than a preview still waiting for its operation.
		if snap := state.Snapshot(msg); snap.Version >= m.snapshot.Version {
			m.setSnapshot(snap)
		}
		return m, nil

	case resultMsg:
		return m.handleResult(gallery.Result(msg))

	case loginMsg:
		return m.handleLogin(msg)

	case registerMsg:
		return m.handleRegister(msg)

	case logoutMsg:
		if msg.err != nil {
			m.logger.Warn("sign out incomplete", zap.Error(msg.err))
		}
		return m, nil

	case passwordMsg:
		var cmd tea.Cmd
		if msg.err != nil {
			cmd = m.toast(toastError, formError(msg.err, "Could not change the password.").Error())
		} else {
			cmd = m.toast(toastSuccess, orDefault(msg.message, "Password changed"))
		}
		return m, cmd

	case deleteRequestMsg:
		return m.startDelete(msg.imageID)

	case editRequestMsg:
		return m.startEdit(msg)

	case uploadRequestMsg:
		return m.startUpload(msg)

	case passwordRequestMsg:
		return m, passwordCmd(m.ctx, m.session, msg.form)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil
	}

	// Cursor blinks and other input traffic go to whatever owns focus.
	return m.forwardToFocus(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.route != session.RouteGallery {
		return m.handleAuthKey(msg)
	}

	if m.showLogs {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m.handleLogsKey(msg)
	}

	if _, ok := m.snapshot.Selected(); ok {
		return m.handleViewerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()
	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, m.refreshLogs()
	case key.Matches(msg, m.keys.SignOut):
		return m.signOut()
	case key.Matches(msg, m.keys.Password):
		return m.openModal(newPasswordModal())
	case key.Matches(msg, m.keys.Reload):
		return m, m.runOp(m.gallery.Load)
	case key.Matches(msg, m.keys.Upload):
		return m.openModal(newUploadModal())
	}
	return m.handleGridKey(msg)
}

// handleGridKey moves the cursor and runs actions on the image under it.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	images := m.snapshot.Images
	n := len(images)
	cols := m.columns()

	if m.grabbed != "" && key.Matches(msg, m.keys.Escape) {
		m.grabbed = ""
		return m, nil
	}
	if n == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = gridMove(m.cursor, n, cols, -1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = gridMove(m.cursor, n, cols, 1, 0)
	case key.Matches(msg, m.keys.Left):
		m.cursor = gridMove(m.cursor, n, cols, 0, -1)
	case key.Matches(msg, m.keys.Right):
		m.cursor = gridMove(m.cursor, n, cols, 0, 1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = n - 1
	case key.Matches(msg, m.keys.Grab):
		if m.grabbed == images[m.cursor].ID {
			m.grabbed = ""
		} else {
			m.grabbed = images[m.cursor].ID
		}
	case key.Matches(msg, m.keys.Drop):
		if m.grabbed == "" {
			return m.openViewer()
		}
		source, target := m.grabbed, images[m.cursor].ID
		m.grabbed = ""
		return m.startMove(source, target)
	case key.Matches(msg, m.keys.View):
		return m.openViewer()
	case key.Matches(msg, m.keys.MoveBack), key.Matches(msg, m.keys.MoveAhead):
		delta := 1
		if key.Matches(msg, m.keys.MoveBack) {
			delta = -1
		}
		target, ok := neighbourID(images, m.cursor, delta)
		if !ok {
			return m, nil
		}
		source := images[m.cursor].ID
		m.cursor += delta
		return m.startMove(source, target)
	case key.Matches(msg, m.keys.Edit):
		return m.openModal(newEditModal(images[m.cursor]))
	case key.Matches(msg, m.keys.Delete):
		return m.requestDelete(images[m.cursor])
	}
	m.scrollRow = firstVisibleRow(m.cursor, cols, m.visibleRows(), m.scrollRow)
	return m, nil
}

func (m Model) openModal(modal Modal) (tea.Model, tea.Cmd) {
	m.modal = modal
	return m, textinput.Blink
}

func (m Model) requestDelete(img api.Image) (tea.Model, tea.Cmd) {
	if m.prefs.ConfirmDelete {
		m.modal = confirmDeleteModal{image: img}
		return m, nil
	}
	return m.startDelete(img.ID)
}

// Operations run off the Update loop and report back as a resultMsg. The
// optimistic part is previewed here so the grid changes on the same frame.

func (m Model) startMove(sourceID, targetID string) (tea.Model, tea.Cmd) {
	m.pending[gallery.OpReorder] = true
	if moved, ok := state.MoveByID(m.snapshot.Images, sourceID, targetID); ok && sourceID != targetID {
		m.preview(state.Renumber(moved))
	}
	return m, m.runOp(func(ctx context.Context) gallery.Result {
		return m.gallery.Move(ctx, sourceID, targetID)
	})
}

func (m Model) startDelete(imageID string) (tea.Model, tea.Cmd) {
	m.pending[gallery.OpDelete] = true
	if idx := state.IndexOf(m.snapshot.Images, imageID); idx >= 0 && m.gallery.Optimistic() {
		m.preview(slices.Delete(slices.Clone(m.snapshot.Images), idx, idx+1))
	}
	return m, m.runOp(func(ctx context.Context) gallery.Result {
		return m.gallery.Delete(ctx, imageID, true)
	})
}

func (m Model) startEdit(req editRequestMsg) (tea.Model, tea.Cmd) {
	m.pending[gallery.OpEdit] = true
	if idx := state.IndexOf(m.snapshot.Images, req.imageID); idx >= 0 && m.gallery.Optimistic() {
		if title, err := validate.Title(req.title); err == nil {
			images := slices.Clone(m.snapshot.Images)
			images[idx].Title = title
			m.preview(images)
		}
	}
	return m, m.runOp(func(ctx context.Context) gallery.Result {
		var file *api.UploadFile
		if req.path != "" {
			f, err := gallery.ReadFile(req.path, req.title)
			if err != nil {
				return gallery.Result{Op: gallery.OpEdit, Status: gallery.Rejected, Message: err.Error(), Err: err}
			}
			file = &f
		}
		return m.gallery.Edit(ctx, req.imageID, req.title, file)
	})
}

// preview shows images until the operation's result arrives. It takes the
// version the store will have once the operation applies the same change,
// so ticks taken before that are ignored.
func (m *Model) preview(images []api.Image) {
	next := m.snapshot
	next.Images = images
	next.Version++
	m.setSnapshot(next)
}

func (m Model) startUpload(req uploadRequestMsg) (tea.Model, tea.Cmd) {
	m.pending[gallery.OpUpload] = true
	cmd := m.runOp(func(ctx context.Context) gallery.Result {
		files, err := gallery.ReadFiles(ctx, req.paths, req.titles)
		if err != nil {
			return gallery.Result{Op: gallery.OpUpload, Status: gallery.Rejected, Message: err.Error(), Err: err}
		}
		return m.gallery.Upload(ctx, files)
	})
	return m, cmd
}

func (m Model) handleResult(res gallery.Result) (tea.Model, tea.Cmd) {
	delete(m.pending, res.Op)
	m.setSnapshot(m.gallery.Store().Snapshot())

	if api.IsUnauthorized(res.Err) {
		m.logger.Info("session rejected by service", zap.String("op", string(res.Op)))
		return m.signOut()
	}
	if res.Op == gallery.OpUpload && res.OK() && len(res.Images) > 0 {
		m.cursor = len(m.snapshot.Images) - 1
		m.scrollRow = firstVisibleRow(m.cursor, m.columns(), m.visibleRows(), m.scrollRow)
	}
	// Background loads only speak up when something went wrong.
	if res.Op == gallery.OpLoad && (res.OK() || errors.Is(res.Err, gallery.ErrInFlight)) {
		return m, nil
	}
	text := res.Message
	if res.RolledBack {
		text += " Changes were undone."
	}
	cmd := m.toast(levelFor(res), strings.TrimSpace(text))
	return m, cmd
}

func (m Model) signOut() (tea.Model, tea.Cmd) {
	m.gallery.SignOut()
	m.grabbed = ""
	m.cursor, m.scrollRow = 0, 0
	m.modal = nil
	m.showLogs = false
	cmd := logoutCmd(m.ctx, m.session)
	m = m.navigate(session.RouteLogin)
	m.setSnapshot(m.gallery.Store().Snapshot())
	return m, cmd
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.logger.Warn("save prefs", zap.Error(err))
		}
	}
	return m, nil
}

// navigate moves to route, or wherever the session gate sends us instead.
func (m Model) navigate(route session.Route) Model {
	d := m.session.Gate(route)
	if d.Allow {
		m.route = route
	} else {
		m.route = d.Redirect
	}
	if m.route == session.RouteLogin {
		m.login.setFocus(0)
	}
	if m.route == session.RouteRegister {
		m.register.setFocus(0)
	}
	return m
}

func (m *Model) setSnapshot(s state.Snapshot) {
	m.snapshot = s
	m.cursor = clampCursor(m.cursor, len(s.Images))
	if m.grabbed != "" && state.IndexOf(s.Images, m.grabbed) < 0 {
		m.grabbed = ""
	}
}

// forwardToFocus hands non-key messages to the focused text input.
func (m Model) forwardToFocus(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.modal != nil:
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
	case m.route == session.RouteLogin:
		m.login, cmd, _ = m.login.update(msg, m.keys)
	case m.route == session.RouteRegister:
		m.register, cmd, _ = m.register.update(msg, m.keys)
	}
	return m, cmd
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}

	// An expiring token takes the user back to the login screen.
	if m.route == session.RouteGallery && !m.session.Gate(session.RouteGallery).Allow {
		m.logger.Info("session expired")
		model, cmd := m.signOut()
		next := model.(Model)
		expired := next.toast(toastWarning, "Your session expired. Please sign in again.")
		return next, tea.Batch(append(cmds, cmd, expired)...)
	}

	if m.route == session.RouteGallery {
		cmds = append(cmds, fetchSnapshotCmd(m.gallery.Store()))
	}
	if cmd := m.refreshLogs(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) contentHeight() int {
	h := m.height - 3 // header, status line, footer
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) visibleRows() int {
	rows := m.contentHeight() / cardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	height := m.contentHeight()
	var content string
	switch {
	case m.route != session.RouteGallery:
		content = m.renderAuth(height)
	case m.showLogs:
		content = m.logViewport.View()
	case m.snapshot.SelectedID != "":
		content = m.renderViewer(height)
	default:
		content = m.renderGrid(height)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderStatusLine(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBar(m.theme.Surface)
	parts := []string{bg.text("frame", styles.Logo)}
	if user, ok := m.gallery.User(); ok && m.route == session.RouteGallery {
		parts = append(parts, bg.text(user.Name, styles.Text))
		parts = append(parts, bg.text(fmt.Sprintf("%d images", len(m.snapshot.Images)), styles.MutedText))
	}
	if m.snapshot.IsOffline() {
		parts = append(parts, bg.text("offline", styles.DangerText))
	}
	if n := len(m.pending); n > 0 {
		parts = append(parts, bg.text("saving...", styles.WarningText))
	}
	if m.apiURL != "" {
		parts = append(parts, bg.text(m.apiURL, styles.FaintText))
	}
	return bg.line(bg.join(parts, "  │  "), m.width)
}

func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if toast := m.renderToast(); toast != "" {
		return " " + toast
	}
	if m.grabbed != "" {
		return " " + styles.WarningText.Render("Moving image: choose a spot and press enter, esc cancels")
	}
	if err := m.snapshot.LastError; err != nil && m.route == session.RouteGallery {
		return " " + styles.DangerText.Render(userFacing(err, "Could not load the gallery.").Error())
	}
	return ""
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := newBar(m.theme.Surface)
	var hints [][2]string
	switch {
	case m.route != session.RouteGallery:
		hints = [][2]string{{"enter", "submit"}, {"ctrl+r", "login/register"}, {"ctrl+c", "quit"}}
	case m.showLogs:
		hints = [][2]string{{"j/k", "scroll"}, {"g/G", "top/bottom"}, {"esc", "back"}}
	default:
		hints = [][2]string{{"space", "grab"}, {"enter", "drop/view"}, {"u", "upload"}, {"e", "edit"}, {"d", "delete"}, {"?", "help"}, {"q", "quit"}}
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, bg.text(h[0], styles.KeyHint)+bg.space+bg.text(h[1], styles.MutedText))
	}
	return bg.line(bg.join(parts, "   "), m.width)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type resultMsg gallery.Result

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) runOp(op func(context.Context) gallery.Result) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg(op(ctx))
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
