package ui

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/gallery"
	"github.com/five82/frame/internal/prefs"
	"github.com/five82/frame/internal/session"
	"github.com/five82/frame/internal/state"
	"github.com/five82/frame/internal/validate"
)

type fakeImages struct {
	mu      sync.Mutex
	images  []api.Image
	orders  [][]api.OrderUpdate
	deleted []string
	nextID  int
}

func (f *fakeImages) ListImages(_ context.Context, _ string) ([]api.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Image(nil), f.images...), nil
}

func (f *fakeImages) UploadImages(_ context.Context, req api.UploadRequest) (api.UploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var created []api.Image
	for _, file := range req.Files {
		f.nextID++
		img := api.Image{ID: fmt.Sprintf("new%d", f.nextID), Title: file.Title, Order: len(f.images) + 1}
		f.images = append(f.images, img)
		created = append(created, img)
	}
	return api.UploadResponse{Status: true, Message: "Uploaded", Data: created}, nil
}

func (f *fakeImages) EditImage(_ context.Context, req api.EditRequest) (api.EditResponse, error) {
	return api.EditResponse{Status: true, Data: api.Image{ID: req.ImageID, Title: req.Title}}, nil
}

func (f *fakeImages) DeleteImage(_ context.Context, imageID, _ string) (api.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, imageID)
	return api.DeleteResult{Raw: []byte(`{"status":true}`)}, nil
}

func (f *fakeImages) ChangeImageOrder(_ context.Context, updates []api.OrderUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, updates)
	return nil
}

type fakeUsers struct{}

func (fakeUsers) Register(context.Context, api.RegisterRequest) (api.UserResponse, error) {
	return api.UserResponse{Status: true}, nil
}

func (fakeUsers) Login(_ context.Context, email, _ string) (api.User, error) {
	return api.User{ID: "u1", Name: "Ada", Email: email}, nil
}

func (fakeUsers) Logout(context.Context) error { return nil }

func (fakeUsers) ResetPassword(context.Context, string, string, string) (string, error) {
	return "Password updated", nil
}

type fakeJar struct {
	mu      sync.Mutex
	cookies []*http.Cookie
}

func (j *fakeJar) Cookies() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cookies
}

func (j *fakeJar) SetCookies(c []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = c
}

func (j *fakeJar) ClearCookies() { j.SetCookies(nil) }

type harness struct {
	images   *fakeImages
	jar      *fakeJar
	svc      *gallery.Service
	sessions *session.Manager
	opts     Options
}

func newHarness(t *testing.T, count int) *harness {
	t.Helper()
	images := &fakeImages{}
	for i := 1; i <= count; i++ {
		images.images = append(images.images, api.Image{ID: fmt.Sprint(i), Title: fmt.Sprintf("Image %d", i), Order: i})
	}
	dir := t.TempDir()
	jar := &fakeJar{}
	svc := gallery.NewService(images, &state.Store{})
	sessions := session.NewManager(fakeUsers{}, jar, filepath.Join(dir, "session.toml"), nil)
	p := prefs.Default()
	return &harness{
		images:   images,
		jar:      jar,
		svc:      svc,
		sessions: sessions,
		opts: Options{
			Context:   context.Background(),
			Gallery:   svc,
			Session:   sessions,
			Prefs:     p,
			PrefsPath: filepath.Join(dir, "prefs.toml"),
		},
	}
}

// signIn logs in through the manager and loads the gallery, as Build does
// for a restored session.
func (h *harness) signIn(t *testing.T) Model {
	t.Helper()
	s, err := h.sessions.Login(context.Background(), validate.LoginForm{Email: "ada@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	h.svc.SetUser(s.User)
	if res := h.svc.Load(context.Background()); !res.OK() {
		t.Fatalf("Load: %+v", res)
	}
	m := New(h.opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// collect runs cmd and any batched commands, keeping the messages that
// arrive promptly. Timer-driven commands are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// send delivers msg and every message its commands produce, depth first.
func send(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, follow := range collect(cmd) {
		switch follow.(type) {
		case tea.QuitMsg:
			continue
		}
		m = send(m, follow)
	}
	return m
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(m, msg)
	}
	return m
}

func ids(images []api.Image) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.ID
	}
	return out
}

func TestModel_SignedOutStartsOnLogin(t *testing.T) {
	h := newHarness(t, 0)
	m := New(h.opts)
	if m.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", m.route)
	}
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if out := m.View(); !strings.Contains(out, "Sign in") {
		t.Fatalf("login screen missing title:\n%s", out)
	}
}

func TestModel_ToggleBetweenLoginAndRegister(t *testing.T) {
	h := newHarness(t, 0)
	m := New(h.opts)
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.route != session.RouteRegister {
		t.Fatalf("route = %q, want register", m.route)
	}
	m = press(m, "esc")
	if m.route != session.RouteLogin {
		t.Fatalf("route = %q, want login after esc", m.route)
	}
}

func TestModel_LoginLoadsGallery(t *testing.T) {
	h := newHarness(t, 3)
	m := New(h.opts)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	for _, r := range "ada@example.com" {
		m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = press(m, "tab")
	for _, r := range "secret" {
		m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = press(m, "enter")

	if m.route != session.RouteGallery {
		t.Fatalf("route = %q, want gallery (form message %q, errs %v)", m.route, m.login.message, m.login.errs)
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("gallery mismatch (-want +got):\n%s", diff)
	}
	if user, ok := h.svc.User(); !ok || user.ID != "u1" {
		t.Fatalf("service user = %+v, %v", user, ok)
	}
}

func TestModel_LoginValidationStaysOnForm(t *testing.T) {
	h := newHarness(t, 0)
	m := New(h.opts)
	m = press(m, "n", "o", "t", "enter", "enter")
	if m.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", m.route)
	}
	if m.login.errs["email"] == "" {
		t.Fatalf("expected an email error, got %v", m.login.errs)
	}
}

func TestModel_GrabAndDropReorders(t *testing.T) {
	h := newHarness(t, 3)
	m := h.signIn(t)

	m = press(m, "G", "space")
	if m.grabbed != "3" {
		t.Fatalf("grabbed = %q, want 3", m.grabbed)
	}
	m = press(m, "g", "enter")

	if m.grabbed != "" {
		t.Fatalf("grab not released: %q", m.grabbed)
	}
	if diff := cmp.Diff([]string{"3", "1", "2"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	h.images.mu.Lock()
	defer h.images.mu.Unlock()
	want := [][]api.OrderUpdate{{{ID: "3", Order: 1}, {ID: "1", Order: 2}, {ID: "2", Order: 3}}}
	if diff := cmp.Diff(want, h.images.orders); diff != "" {
		t.Fatalf("order request mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_EscCancelsGrab(t *testing.T) {
	h := newHarness(t, 3)
	m := h.signIn(t)
	m = press(m, "space", "l", "esc")
	if m.grabbed != "" {
		t.Fatalf("grabbed = %q after esc", m.grabbed)
	}
	if len(h.images.orders) != 0 {
		t.Fatalf("unexpected reorder request: %v", h.images.orders)
	}
}

func TestModel_BracketNudgesOneStep(t *testing.T) {
	h := newHarness(t, 3)
	m := h.signIn(t)
	m = press(m, "]")
	if diff := cmp.Diff([]string{"2", "1", "3"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want it to follow the image to 1", m.cursor)
	}
	m = press(m, "[")
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("order mismatch after moving back (-want +got):\n%s", diff)
	}
}

func TestModel_MovePreviewsBeforeTheRequestRuns(t *testing.T) {
	h := newHarness(t, 3)
	m := h.signIn(t)
	stale := h.svc.Store().Snapshot()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	m = next.(Model)
	if diff := cmp.Diff([]string{"2", "1", "3"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("order before the request ran (-want +got):\n%s", diff)
	}

	// A tick read before the store applied the move must not undo the preview.
	m = send(m, snapshotMsg(stale))
	if diff := cmp.Diff([]string{"2", "1", "3"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("stale snapshot replaced the preview (-want +got):\n%s", diff)
	}

	for _, msg := range collect(cmd) {
		m = send(m, msg)
	}
	if diff := cmp.Diff([]string{"2", "1", "3"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("order after the request (-want +got):\n%s", diff)
	}
	if m.snapshot.Version != h.svc.Store().Snapshot().Version {
		t.Fatalf("snapshot version %d, store %d", m.snapshot.Version, h.svc.Store().Snapshot().Version)
	}
}

func TestModel_DeleteAsksFirst(t *testing.T) {
	h := newHarness(t, 3)
	m := h.signIn(t)
	m = press(m, "l", "d")
	if _, ok := m.modal.(confirmDeleteModal); !ok {
		t.Fatalf("modal = %T, want confirmDeleteModal", m.modal)
	}
	m = press(m, "n")
	if m.modal != nil || len(m.snapshot.Images) != 3 {
		t.Fatalf("declined delete changed state: modal=%T images=%d", m.modal, len(m.snapshot.Images))
	}

	m = press(m, "d", "y")
	if diff := cmp.Diff([]string{"1", "3"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("gallery mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2"}, h.images.deleted); diff != "" {
		t.Fatalf("delete requests mismatch (-want +got):\n%s", diff)
	}
	if m.currentToast == nil || m.currentToast.level != toastSuccess {
		t.Fatalf("expected a success toast, got %+v", m.currentToast)
	}
}

func TestModel_DeleteWithoutConfirmationPreference(t *testing.T) {
	h := newHarness(t, 2)
	h.opts.Prefs.ConfirmDelete = false
	m := h.signIn(t)
	m = press(m, "d")
	if m.modal != nil {
		t.Fatalf("modal = %T, want none", m.modal)
	}
	if diff := cmp.Diff([]string{"2"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("gallery mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_FullViewSteps(t *testing.T) {
	h := newHarness(t, 3)
	m := h.signIn(t)
	m = press(m, "v")
	if got, ok := m.snapshot.Selected(); !ok || got.ID != "1" {
		t.Fatalf("selected = %+v, %v", got, ok)
	}
	m = press(m, "l", "l", "l")
	if got, _ := m.snapshot.Selected(); got.ID != "3" {
		t.Fatalf("selected = %q, want 3 (clamped at the end)", got.ID)
	}
	m = press(m, "esc")
	if m.snapshot.SelectedID != "" {
		t.Fatalf("selection not cleared: %q", m.snapshot.SelectedID)
	}
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
}

func TestModel_EditFromModal(t *testing.T) {
	h := newHarness(t, 2)
	m := h.signIn(t)
	m = press(m, "e")
	if _, ok := m.modal.(editModal); !ok {
		t.Fatalf("modal = %T, want editModal", m.modal)
	}
	m = send(m, editRequestMsg{imageID: "1", title: "Harbour Lights"})
	if got := m.snapshot.Images[0].Title; got != "Harbour Lights" {
		t.Fatalf("title = %q", got)
	}
}

func TestEditModal_RejectsBadTitle(t *testing.T) {
	modal := newEditModal(api.Image{ID: "1", Title: "ab"})
	keys := DefaultKeyMap()
	var (
		next   Modal = modal
		closed bool
	)
	for range 2 {
		next, _, closed = next.Update(tea.KeyMsg{Type: tea.KeyEnter}, keys)
	}
	if closed {
		t.Fatal("modal closed with an invalid title")
	}
	if msg := next.(editModal).form.errs["title"]; msg == "" {
		t.Fatal("expected a title error")
	}
}

func TestModel_UploadAppends(t *testing.T) {
	h := newHarness(t, 1)
	m := h.signIn(t)
	path := filepath.Join(t.TempDir(), "beach.png")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		t.Fatal(err)
	}
	m = send(m, uploadRequestMsg{paths: []string{path}, titles: []string{"Beach Day"}})
	if diff := cmp.Diff([]string{"1", "new1"}, ids(m.snapshot.Images)); diff != "" {
		t.Fatalf("gallery mismatch (-want +got):\n%s", diff)
	}
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want it on the new image", m.cursor)
	}
}

func TestModel_UploadMissingFileIsRejected(t *testing.T) {
	h := newHarness(t, 1)
	m := h.signIn(t)
	m = send(m, uploadRequestMsg{paths: []string{filepath.Join(t.TempDir(), "missing.png")}})
	if len(m.snapshot.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(m.snapshot.Images))
	}
	if m.currentToast == nil || m.currentToast.level != toastWarning {
		t.Fatalf("expected a warning toast, got %+v", m.currentToast)
	}
}

func TestModel_UnauthorizedResultSignsOut(t *testing.T) {
	h := newHarness(t, 2)
	m := h.signIn(t)
	m = send(m, resultMsg(gallery.Result{
		Op:     gallery.OpLoad,
		Status: gallery.Failed,
		Err:    &api.StatusError{Code: http.StatusUnauthorized},
	}))
	if m.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", m.route)
	}
	if _, ok := h.svc.User(); ok {
		t.Fatal("gallery still has a user")
	}
	if len(m.snapshot.Images) != 0 {
		t.Fatalf("images = %d, want store cleared", len(m.snapshot.Images))
	}
}

func TestModel_ExpiredTokenReturnsToLogin(t *testing.T) {
	h := newHarness(t, 1)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	h.jar.cookies = []*http.Cookie{{Name: session.TokenCookie, Value: token}}

	m := h.signIn(t)
	if m.route != session.RouteLogin {
		t.Fatalf("route = %q, want login for an expired token", m.route)
	}

	m.route = session.RouteGallery
	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if m.route != session.RouteLogin {
		t.Fatalf("route after tick = %q, want login", m.route)
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	h := newHarness(t, 0)
	m := h.signIn(t)
	m = press(m, "T")
	if m.theme.Name != "Gruvbox" {
		t.Fatalf("theme = %q, want Gruvbox", m.theme.Name)
	}
	saved, err := prefs.Load(h.opts.PrefsPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Theme != "Gruvbox" || !saved.ConfirmDelete {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_ChangePassword(t *testing.T) {
	h := newHarness(t, 0)
	m := h.signIn(t)
	m = press(m, "P")
	if _, ok := m.modal.(passwordModal); !ok {
		t.Fatalf("modal = %T, want passwordModal", m.modal)
	}
	m = send(m, passwordRequestMsg{form: validate.ChangePasswordForm{OldPassword: "old", NewPassword: "N3w!pass"}})
	if m.currentToast == nil || m.currentToast.text != "Password updated" {
		t.Fatalf("toast = %+v", m.currentToast)
	}
}

func TestModel_ViewRendersEveryScreen(t *testing.T) {
	h := newHarness(t, 4)
	m := h.signIn(t)
	if out := m.View(); out == "" {
		t.Fatal("empty gallery view")
	}
	m = press(m, "?")
	if out := m.View(); out == "" {
		t.Fatal("empty help view")
	}
	m = press(m, "x", "v")
	if out := m.View(); out == "" {
		t.Fatal("empty full view")
	}
	m = press(m, "esc", "L")
	if !m.showLogs {
		t.Fatal("log view not open")
	}
	if out := m.View(); out == "" {
		t.Fatal("empty log view")
	}
}

func TestModel_SignOut(t *testing.T) {
	h := newHarness(t, 2)
	m := h.signIn(t)
	m = press(m, "O")
	if m.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", m.route)
	}
	if h.sessions.Current() != nil {
		t.Fatal("session still present")
	}
}
