// Package ui is a desktop jog panel for the motor. It writes controller commands and shows the output.
package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/ardumoto"
	"github.com/calvinmclean/ardumoto/controller"
)

// maxLogLines keeps the log label from growing forever
const maxLogLines = 200

// JogUI is the main window. It implements io.Writer so controller output can be shown in the log.
type JogUI struct {
	app fyne.App

	mtx     sync.Mutex
	lines   []string
	partial string
	log     *widget.Label
}

var _ io.Writer = &JogUI{}

func NewJogUI(app fyne.App) *JogUI {
	return &JogUI{
		app: app,
		log: widget.NewLabel(""),
	}
}

// Write implements io.Writer. Complete lines are appended to the log.
func (ui *JogUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	text := ui.appendLines(string(p))
	ui.mtx.Unlock()

	fyne.Do(func() {
		ui.log.SetText(text)
	})

	return len(p), nil
}

// appendLines must be called with mtx held. It returns the full log text.
func (ui *JogUI) appendLines(s string) string {
	s = ui.partial + s
	parts := strings.Split(s, "\n")
	ui.partial = parts[len(parts)-1]

	ui.lines = append(ui.lines, parts[:len(parts)-1]...)
	if len(ui.lines) > maxLogLines {
		ui.lines = ui.lines[len(ui.lines)-maxLogLines:]
	}

	return strings.Join(ui.lines, "\n")
}

func createSpeedSlider(initial int, onSet func(float64)) *fyne.Container {
	valueLabel := widget.NewLabel(strconv.Itoa(initial))

	slider := widget.NewSlider(1, ardumoto.MaxRPM)
	slider.Step = 1
	slider.SetValue(float64(initial))
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%.0f", value))
	}
	slider.OnChangeEnded = onSet

	return container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("RPM"),
			valueLabel,
		),
		slider,
	)
}

func createStepControls(c *controllerWrapper) *fyne.Container {
	stepsEntry := widget.NewEntry()
	stepsEntry.SetText("10")

	steps := func() (int, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(stepsEntry.Text))
		if err != nil || n <= 0 {
			stepsEntry.SetText("")
			return 0, false
		}
		return n, true
	}

	return container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Steps"),
			stepsEntry,
		),
		container.NewGridWithColumns(2,
			widget.NewButton("Reverse", func() {
				if n, ok := steps(); ok {
					c.Step(-n)
				}
			}),
			widget.NewButton("Forward", func() {
				if n, ok := steps(); ok {
					c.Step(n)
				}
			}),
		),
		container.NewGridWithColumns(2,
			widget.NewButton("Revolution -", func() { c.Revolution(true) }),
			widget.NewButton("Revolution +", func() { c.Revolution(false) }),
		),
	)
}

// Show opens the jog panel. Commands are written to w, which is usually piped into controller.Run.
func (ui *JogUI) Show(ctx context.Context, cfg controller.Config, w io.Writer) {
	window := ui.app.NewWindow("Ardumoto")

	lastCommandTimer := newTimer()
	lastCommandTimer.Go(ctx)

	c := &controllerWrapper{writer: w, lastCommandTimer: lastCommandTimer}

	logScroll := container.NewVScroll(ui.log)
	logScroll.SetMinSize(fyne.NewSize(300, 100))

	content := container.NewVBox(
		container.NewHBox(
			widget.NewLabel(fmt.Sprintf("%s (%d steps/rev)", cfg.SerialPort, cfg.StepsPerRevolution)),
			layout.NewSpacer(),
			container.NewPadded(lastCommandTimer.text),
		),
		createSpeedSlider(cfg.RPM, c.SetSpeed),
		createStepControls(c),
		widget.NewAccordion(
			widget.NewAccordionItem("Logs", logScroll),
		),
	)

	window.SetCloseIntercept(func() {
		window.Close()
		ui.app.Quit()
	})
	window.SetContent(content)
	window.Resize(fyne.NewSize(320, 240))
	window.Show()
}

// ShowError shows err in a window and quits once it is dismissed
func (ui *JogUI) ShowError(err error) {
	window := ui.app.NewWindow("Ardumoto - Error")
	window.Resize(fyne.NewSize(300, 150))
	window.Show()
	showError(ui.app, window, err)
}
