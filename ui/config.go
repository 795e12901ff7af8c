package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/ardumoto/controller"
)

// ConfigWindow asks for the serial port and motor settings before the jog panel opens
type ConfigWindow struct {
	app      fyne.App
	OnSubmit func(controller.Config)
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	cfg.SerialPort = prefs.StringWithFallback("serialPort", cfg.SerialPort)
	cfg.BaudRate = prefs.IntWithFallback("baudRate", cfg.BaudRate)
	cfg.StepsPerRevolution = prefs.IntWithFallback("stepsPerRevolution", cfg.StepsPerRevolution)
	cfg.RPM = prefs.IntWithFallback("rpm", cfg.RPM)
}

func (cw *ConfigWindow) saveConfigToPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", cfg.SerialPort)
	prefs.SetInt("baudRate", cfg.BaudRate)
	prefs.SetInt("stepsPerRevolution", cfg.StepsPerRevolution)
	prefs.SetInt("rpm", cfg.RPM)
}

func (cw *ConfigWindow) Show(cfg *controller.Config) {
	window := cw.app.NewWindow("Ardumoto - Configuration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// closing is the same as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	cw.loadConfigFromPreferences(cfg)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		showError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if cfg.SerialPort == "" {
		cfg.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&cfg.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.IntToString(binding.BindInt(&cfg.BaudRate)))

	stepsEntry := widget.NewEntry()
	stepsEntry.Bind(binding.IntToString(binding.BindInt(&cfg.StepsPerRevolution)))

	rpmEntry := widget.NewEntry()
	rpmEntry.Bind(binding.IntToString(binding.BindInt(&cfg.RPM)))

	submitButton := widget.NewButton("Submit", func() {
		err := cfg.Validate()
		if err != nil {
			dialog.ShowError(err, window)
			return
		}

		cw.saveConfigToPreferences(cfg)
		window.Close()
		cw.OnSubmit(*cfg)
	})

	form := container.NewVBox(
		widget.NewCard("Configuration", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Steps per Revolution:"),
				stepsEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("RPM:"),
				rpmEntry,
			),
		)),
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
}

func showError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}
