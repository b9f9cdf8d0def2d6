package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"sync/atomic"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/charmbracelet/log"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/pkg/client"
	"taskboard/pkg/task"
)

var (
	theme  *material.Theme
	logger *log.Logger

	green  = color.NRGBA{R: 0x22, G: 0xA0, B: 0x55, A: 0xFF}
	orange = color.NRGBA{R: 0xE0, G: 0x80, B: 0x20, A: 0xFF}
	grey   = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	red    = color.NRGBA{R: 0xC0, G: 0x30, B: 0x30, A: 0xFF}
)

// taskWidgets holds the per-card widget state, keyed by task id.
type taskWidgets struct {
	done       widget.Bool
	edit       widget.Clickable
	del        widget.Clickable
	confirmYes widget.Clickable
	confirmNo  widget.Clickable
}

type UI struct {
	sess *client.Session
	ctx  context.Context

	// Create form
	titleEditor widget.Editor
	descEditor  widget.Editor
	addBtn      widget.Clickable
	clearForm   atomic.Bool
	creating    atomic.Bool

	// Edit mode
	editTitle widget.Editor
	editDesc  widget.Editor
	saveBtn   widget.Clickable
	cancelBtn widget.Clickable

	taskList      widget.List
	cards         map[string]*taskWidgets
	confirmDelete string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ui: %v\n", err)
		os.Exit(1)
	}
	logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, "ui")

	theme = material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	theme.Palette.Bg = color.NRGBA{R: 0xF4, G: 0xF1, B: 0xFA, A: 0xFF}
	theme.Palette.Fg = color.NRGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xFF}
	theme.Palette.ContrastBg = color.NRGBA{R: 0x66, G: 0x7E, B: 0xEA, A: 0xFF}
	theme.Palette.ContrastFg = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	w := new(app.Window)
	ui := &UI{
		ctx:   context.Background(),
		cards: make(map[string]*taskWidgets),
	}
	ui.sess = client.NewSession(client.New(cfg.APIURL, nil),
		client.WithSessionLogger(logger),
		client.WithOnChange(w.Invalidate),
		// Deletes only start from a card's inline Sí.
		client.WithConfirm(func(string) bool { return true }),
	)
	ui.taskList.Axis = layout.Vertical
	ui.titleEditor.SingleLine = true
	ui.titleEditor.Submit = true
	ui.editTitle.SingleLine = true

	go func() {
		_ = ui.sess.Load(ui.ctx)
	}()

	go func() {
		w.Option(app.Title("Gestor de Tareas"))
		w.Option(app.Size(unit.Dp(720), unit.Dp(860)))
		if err := ui.run(w); err != nil {
			logger.Fatal("window", "err", err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func (ui *UI) run(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			snap := ui.sess.Snapshot()
			ui.handleClicks(gtx, snap)
			ui.layout(gtx, ui.sess.Snapshot())
			e.Frame(gtx.Ops)
		}
	}
}

func (ui *UI) card(id string) *taskWidgets {
	c, ok := ui.cards[id]
	if !ok {
		c = &taskWidgets{}
		ui.cards[id] = c
	}
	return c
}

func (ui *UI) handleClicks(gtx layout.Context, snap client.State) {
	if ui.clearForm.CompareAndSwap(true, false) {
		ui.titleEditor.SetText("")
		ui.descEditor.SetText("")
		ui.creating.Store(false)
	}

	submitted := false
	for {
		ev, ok := ui.titleEditor.Update(gtx)
		if !ok {
			break
		}
		if _, ok := ev.(widget.SubmitEvent); ok {
			submitted = true
		}
	}
	if (ui.addBtn.Clicked(gtx) || submitted) && ui.creating.CompareAndSwap(false, true) {
		ui.sess.SetDraft(ui.titleEditor.Text(), ui.descEditor.Text())
		go ui.create()
	}

	if ui.saveBtn.Clicked(gtx) && snap.EditingID != "" {
		title := ui.editTitle.Text()
		desc := ui.editDesc.Text()
		go func(id string) {
			_, _ = ui.sess.Update(ui.ctx, id, task.Patch{Title: &title, Description: &desc})
		}(snap.EditingID)
	}
	if ui.cancelBtn.Clicked(gtx) {
		ui.sess.CancelEdit()
	}

	ui.pruneCards(snap.Tasks)
	for _, t := range snap.Tasks {
		c := ui.card(t.ID)
		if c.done.Update(gtx) {
			go func(id string) { _, _ = ui.sess.Toggle(ui.ctx, id) }(t.ID)
		}
		if c.edit.Clicked(gtx) {
			ui.editTitle.SetText(t.Title)
			ui.editDesc.SetText(t.Description)
			ui.sess.StartEdit(t.ID)
		}
		if c.del.Clicked(gtx) {
			ui.confirmDelete = t.ID
		}
		if c.confirmNo.Clicked(gtx) {
			ui.confirmDelete = ""
		}
		if c.confirmYes.Clicked(gtx) {
			ui.confirmDelete = ""
			go func(id string) { _ = ui.sess.Delete(ui.ctx, id) }(t.ID)
		}
	}
}

// pruneCards drops widget state for tasks no longer in the list.
func (ui *UI) pruneCards(tasks []task.Task) {
	live := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		live[t.ID] = true
	}
	for id := range ui.cards {
		if !live[id] {
			delete(ui.cards, id)
		}
	}
	if !live[ui.confirmDelete] {
		ui.confirmDelete = ""
	}
}

// create sends the draft. A blank title sends nothing and keeps the form as is.
// creating stays set after a success until the next frame has cleared the form.
func (ui *UI) create() {
	if _, err := ui.sess.Create(ui.ctx); err != nil {
		ui.creating.Store(false)
		return
	}
	ui.clearForm.Store(true)
}

func (ui *UI) layout(gtx layout.Context, snap client.State) layout.Dimensions {
	if snap.Loading {
		return layout.Center.Layout(gtx, material.H5(theme, "Cargando...").Layout)
	}
	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.H4(theme, "Gestor de Tareas").Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label := material.Body2(theme, "Organiza tu día de manera eficiente")
				label.Color = grey
				return label.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(ui.layoutForm),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layoutStats(gtx, snap.Counts())
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return ui.layoutTasks(gtx, snap)
			}),
		)
	})
}

func (ui *UI) layoutForm(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(material.Editor(theme, &ui.titleEditor, "Título de la tarea *").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(material.Editor(theme, &ui.descEditor, "Descripción (opcional)").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(material.Button(theme, &ui.addBtn, "Agregar Tarea").Layout),
	)
}

func layoutStats(gtx layout.Context, c task.Counts) layout.Dimensions {
	stat := func(n int, label string, col color.NRGBA) layout.FlexChild {
		return layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					num := material.H5(theme, fmt.Sprintf("%d", n))
					num.Color = col
					num.Font.Weight = font.Bold
					return num.Layout(gtx)
				}),
				layout.Rigid(material.Caption(theme, label).Layout),
			)
		})
	}
	return layout.Flex{}.Layout(gtx,
		stat(c.Total, "Total", theme.Palette.Fg),
		stat(c.Completed, "Completadas", green),
		stat(c.Pending, "Pendientes", orange),
	)
}

func (ui *UI) layoutTasks(gtx layout.Context, snap client.State) layout.Dimensions {
	if len(snap.Tasks) == 0 {
		return layout.Center.Layout(gtx, material.Body1(theme, "No hay tareas. ¡Crea tu primera tarea!").Layout)
	}
	return material.List(theme, &ui.taskList).Layout(gtx, len(snap.Tasks), func(gtx layout.Context, i int) layout.Dimensions {
		t := snap.Tasks[i]
		return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			if t.ID == snap.EditingID {
				return ui.layoutEditing(gtx)
			}
			return ui.layoutCard(gtx, t)
		})
	})
}

func (ui *UI) layoutEditing(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(material.Editor(theme, &ui.editTitle, "Título").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(material.Editor(theme, &ui.editDesc, "Descripción").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				layout.Rigid(material.Button(theme, &ui.saveBtn, "Guardar").Layout),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(theme, &ui.cancelBtn, "Cancelar")
					btn.Background = grey
					return btn.Layout(gtx)
				}),
			)
		}),
	)
}

func (ui *UI) layoutCard(gtx layout.Context, t task.Task) layout.Dimensions {
	c := ui.card(t.ID)
	c.done.Value = t.Completed

	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(material.CheckBox(theme, &c.done, "").Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					label := material.Body1(theme, t.Title)
					label.Font.Weight = font.Bold
					if t.Completed {
						label.Color = grey
					}
					return label.Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if t.Description == "" {
						return layout.Dimensions{}
					}
					return material.Body2(theme, t.Description).Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					label := material.Caption(theme, t.CreatedAt.Local().Format("2 Jan 2006"))
					label.Color = grey
					return label.Layout(gtx)
				}),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if ui.confirmDelete == t.ID {
				return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(material.Caption(theme, "¿Eliminar?").Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						btn := material.Button(theme, &c.confirmYes, "Sí")
						btn.Background = red
						return btn.Layout(gtx)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
					layout.Rigid(material.Button(theme, &c.confirmNo, "No").Layout),
				)
			}
			return layout.Flex{}.Layout(gtx,
				layout.Rigid(material.Button(theme, &c.edit, "Editar").Layout),
				layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(theme, &c.del, "Eliminar")
					btn.Background = red
					return btn.Layout(gtx)
				}),
			)
		}),
	)
}
