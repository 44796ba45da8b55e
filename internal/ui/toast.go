package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/gallery"
)

const toastTTL = 4 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastWarning
	toastError
)

type toastState struct {
	id    int
	level toastLevel
	text  string
}

type toastExpiredMsg struct{ id int }

// toast replaces the current toast and schedules its removal. Only the
// newest toast's timer clears it.
func (m *Model) toast(level toastLevel, text string) tea.Cmd {
	if text == "" {
		return nil
	}
	m.toastSeq++
	id := m.toastSeq
	m.currentToast = &toastState{id: id, level: level, text: text}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m *Model) expireToast(id int) {
	if m.currentToast != nil && m.currentToast.id == id {
		m.currentToast = nil
	}
}

func levelFor(res gallery.Result) toastLevel {
	switch {
	case res.OK():
		return toastSuccess
	case res.Status == gallery.Rejected:
		return toastWarning
	default:
		return toastError
	}
}

func (m Model) renderToast() string {
	if m.currentToast == nil {
		return ""
	}
	styles := m.theme.Styles()
	style := styles.InfoText
	switch m.currentToast.level {
	case toastSuccess:
		style = styles.SuccessText
	case toastWarning:
		style = styles.WarningText
	case toastError:
		style = styles.DangerText
	}
	return style.Render(m.currentToast.text)
}

// userFacing reduces err to something worth showing: the service's own
// message when it sent one, otherwise fallback.
func userFacing(err error, fallback string) error {
	if msg := api.ServerMessage(err); msg != "" {
		return errors.New(msg)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("The request timed out.")
	}
	return errors.New(fallback)
}
