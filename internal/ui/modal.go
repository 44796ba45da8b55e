package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/validate"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// Requests emitted by modals. The model turns them into service calls.
type (
	deleteRequestMsg   struct{ imageID string }
	editRequestMsg     struct{ imageID, title, path string }
	uploadRequestMsg   struct{ paths, titles []string }
	passwordRequestMsg struct{ form validate.ChangePasswordForm }
)

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func placeModal(theme Theme, width, height int, style lipgloss.Style, content string) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		style.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// confirmDeleteModal asks before an image is deleted.
type confirmDeleteModal struct {
	image api.Image
}

func (c confirmDeleteModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		return c, emit(deleteRequestMsg{imageID: c.image.ID}), true
	case key.Matches(km, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmDeleteModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	content := strings.Join([]string{
		styles.DangerText.Render("Delete image?"),
		"",
		styles.Text.Render(fmt.Sprintf("%q will be removed from your gallery.", c.image.Title)),
		"",
		styles.KeyHint.Render("y") + styles.MutedText.Render(" delete   ") +
			styles.KeyHint.Render("n/esc") + styles.MutedText.Render(" keep"),
	}, "\n")
	return placeModal(theme, width, height, styles.DangerModal.Width(50), content)
}

// editModal renames an image and optionally swaps its file.
type editModal struct {
	imageID string
	form    form
}

func newEditModal(img api.Image) editModal {
	f := newForm("Edit image",
		newField("title", "Title", "4-25 letters, digits, spaces", false),
		newField("image", "Replace file", "optional path to a new image", false),
	)
	f.setValue("title", img.Title)
	return editModal{imageID: img.ID, form: f}
}

func (e editModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Escape) {
		return e, nil, true
	}
	var (
		cmd       tea.Cmd
		submitted bool
	)
	e.form, cmd, submitted = e.form.update(msg, keys)
	if !submitted {
		return e, cmd, false
	}
	title, err := validate.Title(e.form.value("title"))
	if err != nil {
		e.form.setError(err)
		return e, nil, false
	}
	return e, emit(editRequestMsg{
		imageID: e.imageID,
		title:   title,
		path:    strings.TrimSpace(e.form.value("image")),
	}), true
}

func (e editModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	return placeModal(theme, width, height, styles.Modal.Width(64), e.form.view(styles)+"\n\n"+modalHint(styles))
}

// uploadModal collects file paths and titles for a batch upload.
type uploadModal struct {
	form form
}

func newUploadModal() uploadModal {
	return uploadModal{form: newForm("Upload images",
		newField("files", "Files", "comma-separated paths (up to 12)", false),
		newField("titles", "Titles", "comma-separated, defaults to file names", false),
	)}
}

func (u uploadModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Escape) {
		return u, nil, true
	}
	var (
		cmd       tea.Cmd
		submitted bool
	)
	u.form, cmd, submitted = u.form.update(msg, keys)
	if !submitted {
		return u, cmd, false
	}
	paths := splitList(u.form.value("files"))
	if len(paths) == 0 {
		u.form.setError(validate.FieldErrors{"files": "Please select at least one image to upload."})
		return u, nil, false
	}
	return u, emit(uploadRequestMsg{paths: paths, titles: splitTitles(u.form.value("titles"))}), true
}

func (u uploadModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	return placeModal(theme, width, height, styles.Modal.Width(64), u.form.view(styles)+"\n\n"+modalHint(styles))
}

// passwordModal changes the signed-in user's password.
type passwordModal struct {
	form form
}

func newPasswordModal() passwordModal {
	return passwordModal{form: newForm("Change password",
		newField("oldPassword", "Old password", "", true),
		newField("newPassword", "New password", "8+ chars, mixed case, digit, symbol", true),
	)}
}

func (p passwordModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Escape) {
		return p, nil, true
	}
	var (
		cmd       tea.Cmd
		submitted bool
	)
	p.form, cmd, submitted = p.form.update(msg, keys)
	if !submitted {
		return p, cmd, false
	}
	req := validate.ChangePasswordForm{
		OldPassword: p.form.value("oldPassword"),
		NewPassword: p.form.value("newPassword"),
	}
	if err := validate.ChangePassword(&req); err != nil {
		p.form.setError(err)
		return p, nil, false
	}
	return p, emit(passwordRequestMsg{form: req}), true
}

func (p passwordModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	return placeModal(theme, width, height, styles.Modal.Width(64), p.form.view(styles)+"\n\n"+modalHint(styles))
}

func modalHint(styles Styles) string {
	return styles.KeyHint.Render("tab") + styles.MutedText.Render(" next field   ") +
		styles.KeyHint.Render("enter") + styles.MutedText.Render(" submit   ") +
		styles.KeyHint.Render("esc") + styles.MutedText.Render(" cancel")
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitTitles is splitList that keeps blank positions, so "a,,b" leaves the
// second file on its default title.
func splitTitles(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
