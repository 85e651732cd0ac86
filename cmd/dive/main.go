package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diveengine/dive/internal/config"
	"github.com/diveengine/dive/internal/core/event"
	"github.com/diveengine/dive/internal/core/render"
	"github.com/diveengine/dive/internal/data"
	"github.com/diveengine/dive/internal/engine"
	"github.com/diveengine/dive/internal/render/term"
	"github.com/diveengine/dive/internal/scripting"
	"github.com/diveengine/dive/internal/units"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger. The terminal backend owns the screen, so console
	// output is dropped there when a log file is configured.
	terminal := cfg.Render.Backend == "terminal"
	log, err := newLogger(cfg.Logging, terminal && cfg.Logging.File != "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch cfg.Debug.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Debug.ProfileDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Debug.ProfileDir), profile.NoShutdownHook).Stop()
	}

	// 3. Presenter
	var (
		presenter render.Presenter
		screen    tcell.Screen
	)
	if terminal {
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()
		screen.SetTitle(cfg.Engine.Title)
		presenter = term.NewPresenter(screen, log.Named("term"))
	}

	// 4. Engine core and built-in units
	eng := engine.New(engine.Options{
		Config:    cfg.Engine,
		Presenter: presenter,
		Log:       log,
	})
	reg := eng.Registry()
	units.RegisterAll(reg, units.Deps{
		Registry:  reg,
		Scheduler: eng.Scheduler(),
		Queue:     eng.Queue(),
		Tick:      cfg.Engine.TickInterval(),
		Log:       log.Named("units"),
	})

	// 5. Data templates and startup scene
	if cfg.Data.Templates != "" {
		defs, err := data.LoadTemplates(cfg.Data.Templates)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Warn("template file not found", zap.String("path", cfg.Data.Templates))
		case err != nil:
			return fmt.Errorf("load templates: %w", err)
		default:
			data.RegisterTemplates(reg, defs, log.Named("data"))
		}
	}
	sceneName := ""
	if cfg.Data.Scene != "" {
		scene, err := data.LoadScene(cfg.Data.Scene)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		if _, err := data.ImportScene(reg, scene, log.Named("data")); err != nil {
			return fmt.Errorf("import scene: %w", err)
		}
		sceneName = scene.Name
	}

	// 6. Scripting console
	lua, err := scripting.NewEngine(scripting.Options{
		Registry:  reg,
		Scheduler: eng.Scheduler(),
		Bus:       eng.Bus(),
		Log:       log.Named("lua"),
	})
	if err != nil {
		return fmt.Errorf("init scripting: %w", err)
	}
	defer lua.Close()
	if cfg.Scripting.ScriptsDir != "" {
		if err := lua.LoadDir(cfg.Scripting.ScriptsDir); err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
	}
	if cfg.Scripting.InitScript != "" {
		if _, err := os.Stat(cfg.Scripting.InitScript); err == nil {
			if err := lua.ExecFile(cfg.Scripting.InitScript); err != nil {
				return fmt.Errorf("init script: %w", err)
			}
		} else {
			log.Debug("no init script", zap.String("path", cfg.Scripting.InitScript))
		}
	}
	if _, err := lua.CallHook("on_start", sceneName); err != nil {
		log.Error("on_start failed", zap.Error(err))
	}

	// 7. Input
	if screen != nil {
		event.Subscribe(eng.Bus(), func(ev event.Resize) {
			log.Debug("terminal resized", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
		})
		go term.PollInput(screen, eng.Bus(), term.DefaultBindings())
	}

	// 8. Game loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("engine ready",
		zap.String("title", cfg.Engine.Title),
		zap.Int("tick_rate", cfg.Engine.TickRate),
		zap.Int("draw_rate", cfg.Engine.DrawRate),
		zap.String("backend", cfg.Render.Backend),
		zap.Int("entities", reg.Len()),
		zap.String("config", filepath.Clean(config.Path())),
	)
	if err := eng.Run(ctx); err != nil {
		return err
	}
	stats := eng.Stats()
	log.Info("engine stopped",
		zap.Uint64("ticks", stats.Ticks),
		zap.Uint64("frames", stats.Frames),
	)
	return nil
}
