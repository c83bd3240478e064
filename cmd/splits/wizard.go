package main

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/blaine-t/splits/cmd/splits/ui"
	"github.com/blaine-t/splits/internal/client"
	"github.com/blaine-t/splits/internal/logging"
	"github.com/blaine-t/splits/internal/wizard"
)

// runWizard wires the wizard core to its real collaborators and hands the
// terminal to bubbletea.
func runWizard() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	wizLogger := zap.NewNop()
	if verbose {
		logPath := filepath.Join(filepath.Dir(cfg.DefaultCachePath()), "wizard.log")
		if fileLogger, err := logging.NewFileLogger(logPath, true); err == nil {
			wizLogger = fileLogger
			defer wizLogger.Sync()
		}
	}

	display := ui.NewDisplay()
	cache := client.NewFileCache(cfg.DefaultCachePath())
	submitter := client.NewHTTPSubmitter(cfg.Client.Endpoint, cfg.ClientTimeout())

	wiz := wizard.New(display, cache, submitter, wizard.Options{
		Rules:         &cfg.Validation,
		ActivateDelay: cfg.ActivateDelay(),
		SubmitTimeout: cfg.ClientTimeout(),
		Logger:        wizLogger,
	})
	defer wiz.Reset()

	p := tea.NewProgram(ui.NewModel(wiz), tea.WithAltScreen())
	display.Attach(func(msg tea.Msg) { p.Send(msg) })

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard exited with error: %w", err)
	}
	return nil
}
