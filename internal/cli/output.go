package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/gallery"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(8)
)

// report prints the outcome of a gallery operation and turns anything but
// success into an error so the process exits non-zero.
func report(w io.Writer, res gallery.Result, success string) error {
	if res.OK() {
		msg := res.Message
		if msg == "" {
			msg = success
		}
		if msg != "" {
			fmt.Fprintln(w, okStyle.Render(msg))
		}
		return nil
	}
	msg := res.Message
	if res.RolledBack {
		msg += " Changes were undone."
	}
	if res.Err != nil {
		return fmt.Errorf("%s %s: %w", res.Op, res.Status, errors.Join(errors.New(msg), res.Err))
	}
	return fmt.Errorf("%s %s: %s", res.Op, res.Status, msg)
}

func printImages(w io.Writer, images []api.Image) {
	if len(images) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No images yet. Add some with `frame upload`."))
		return
	}
	rows := make([][]string, len(images))
	for i, img := range images {
		rows[i] = []string{strconv.Itoa(img.Order), img.Title, img.ID}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "TITLE", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(headingStyle)
			}
			return s
		})
	fmt.Fprintln(w, t.Render())
}

func printImage(w io.Writer, img api.Image, position, total int) {
	fmt.Fprintln(w, headingStyle.Render(img.Title))
	field := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+value)
	}
	field("id", img.ID)
	field("order", strconv.Itoa(img.Order))
	field("url", img.ImageURL)
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d of %d", position, total)))
}

func printUser(w io.Writer, user api.User) {
	fmt.Fprintln(w, headingStyle.Render(user.Name)+" "+mutedStyle.Render("<"+user.Email+">"))
	fmt.Fprintln(w, labelStyle.Render("id")+user.ID)
}

func printNotice(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render(msg))
}
