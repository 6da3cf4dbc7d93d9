package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/spriteshell/render"
	"github.com/milk9111/spriteshell/shell"
	"golang.org/x/image/font/basicfont"
)

// infoDialog describes the sprites of one page.
type infoDialog struct {
	page  string
	depth int
}

// dialogView is the ebitenui panel for one infoDialog. The root container
// spans the whole window so widget positions match the cursor while the
// dialog layer rests at (0, 0).
type dialogView struct {
	ui     *ebitenui.UI
	body   *widget.Text
	canvas *ebiten.Image
}

func (g *Game) newDialogView(d infoDialog) *dialogView {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x1c, G: 0x20, B: 0x2c, A: 0xf0})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x48, B: 0x58, A: 0xff})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	title := widget.NewText(
		widget.TextOpts.Text(fmt.Sprintf("Dialog %d: %s", d.depth, d.page), &face, white),
		widget.TextOpts.WidgetOpts(center),
	)
	body := widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xc8, G: 0xcc, B: 0xd8, A: 0xff}),
	)
	closeBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
		widget.ButtonOpts.Text("Close", &face, &widget.ButtonTextColor{Idle: white}),
		widget.ButtonOpts.WidgetOpts(center, widget.WidgetOpts.MinSize(80, 24)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			g.transition(g.shell.CloseDialog())
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 14, Bottom: 14, Left: 16, Right: 16}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(int(g.width/2), int(g.height/2)),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(body)
	panel.AddChild(closeBtn)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	return &dialogView{
		ui:     &ebitenui.UI{Container: root},
		body:   body,
		canvas: ebiten.NewImage(int(g.width), int(g.height)),
	}
}

func (g *Game) dialogView(d infoDialog) *dialogView {
	if v, ok := g.dialogViews[d]; ok {
		return v
	}
	v := g.newDialogView(d)
	g.dialogViews[d] = v
	return v
}

// dropDialogViews frees the views of dialogs that are no longer on the stack.
func (g *Game) dropDialogViews() {
	open := make(map[infoDialog]bool)
	for _, c := range g.shell.Dialogs() {
		if d, ok := c.(infoDialog); ok {
			open[d] = true
		}
	}
	for d, v := range g.dialogViews {
		if !open[d] {
			v.canvas.Deallocate()
			delete(g.dialogViews, d)
		}
	}
}

// updateDialog lets the resting top dialog handle input.
func (g *Game) updateDialog() {
	if g.shell.Busy() {
		return
	}
	if d, ok := g.shell.Dialog.Content.(infoDialog); ok && g.shell.Dialog.Opacity > 0 {
		g.dialogView(d).ui.Update()
	}
}

func (g *Game) drawDialog(screen *ebiten.Image, l shell.Layer) {
	d, ok := l.Content.(infoDialog)
	if !ok || l.Opacity <= 0 {
		return
	}
	v := g.dialogView(d)
	v.body.Label = g.describe(d)
	v.canvas.Clear()
	v.ui.Draw(v.canvas)
	screen.DrawImage(v.canvas, render.LayerOptions(l, 0, 0))
}

func (g *Game) describe(d infoDialog) string {
	var b strings.Builder
	b.WriteString("Esc or Close to dismiss, D to stack another\n\n")
	st := g.stageFor(d.page)
	if st == nil {
		return b.String()
	}
	for _, s := range st.sprites {
		fmt.Fprintf(&b, "%s  frame %d/%d  loops %d  clip %v\n", s.Key(), s.CurrentFrame(), s.NumFrames(), s.Loops(), s.Clip().Image())
		for _, ef := range s.EffectFrames() {
			fmt.Fprintf(&b, "  effect @%d src (%.0f,%.0f)\n", ef.Index, ef.SourceX, ef.SourceY)
		}
	}
	return b.String()
}
