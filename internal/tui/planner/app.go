package planner

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/bunkplan/internal/config"
	"github.com/Iron-Ham/bunkplan/internal/logging"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

// App wraps the planner's bubbletea program.
type App struct {
	program *tea.Program
	model   Model
	logger  *logging.Logger
}

// NewApp creates a planner application.
func NewApp(opts Options, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &App{model: New(opts), logger: logger.WithComponent("planner")}
}

// Run starts the planner and blocks until the user quits. When a config
// file is in use, edits to it are applied while the planner runs.
func (a *App) Run() error {
	a.program = tea.NewProgram(a.model, tea.WithAltScreen())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(tea.Quit())
		}
	}()

	if path := viper.ConfigFileUsed(); path != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			a.logger.Debug("config changed", "path", e.Name, "op", e.Op.String())
			a.program.Send(ReloadMsg())
		})
		viper.WatchConfig()
		a.logger.Info("watching config", "path", path)
	}

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)
	return err
}

// ReloadMsg reads the current configuration into a message for the
// planner. viper has already re-read the file when this runs.
func ReloadMsg() tea.Msg {
	cfg, err := config.Load()
	if err != nil {
		return ConfigErrorMsg{Err: err}
	}
	theme, err := styles.Load(cfg.TUI.Theme)
	if err != nil {
		return ConfigErrorMsg{Err: err}
	}
	return ConfigChangedMsg{
		Theme:         theme,
		Deltas:        cfg.Planner.Deltas(),
		TargetPercent: cfg.Planner.TargetPercentage,
	}
}
