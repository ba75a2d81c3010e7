package main

import (
	"fmt"
	"os"

	"shapeview/internal/commands"
	"shapeview/internal/config"
	"shapeview/internal/debug"
	"shapeview/internal/download"
	"shapeview/internal/graphics"
	"shapeview/internal/lifecycle"
	"shapeview/internal/logger"
	"shapeview/internal/record"
	"shapeview/internal/terminal"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fail(err)
	}
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	prefs := config.LoadPrefs(config.PrefsPath)
	log := logger.New()

	src, closeSrc, err := newSource(cfg)
	if err != nil {
		fail(err)
	}
	defer closeSrc()

	win := graphics.New(graphics.Options{
		Title:      "shapeview",
		Width:      prefs.WindowWidth,
		Height:     prefs.WindowHeight,
		TargetFPS:  prefs.TargetFPS,
		Fullscreen: prefs.Fullscreen,
	})
	views := lifecycle.Register(win, cfg.ViewID, lifecycle.Deps{
		Source: src,
		NewSurface: func(w, h int) (lifecycle.Surface, error) {
			return graphics.NewSurface(w, h)
		},
		Background:    download.ImageLoader{Dir: download.CacheDir, MaxDim: cfg.BackgroundMaxDim}.Load,
		BackgroundURL: cfg.BackgroundURL,
		Log:           log,
	})

	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)
	dbg.Stats = func() (int, bool) {
		scn := views.Scene()
		if scn == nil {
			return 0, false
		}
		return scn.Len(), true
	}

	reg := commands.NewRegistry()
	commands.RegisterViewer(reg, commands.Viewer{
		Views:   win,
		Overlay: dbg,
		Out:     log,
		FPS:     prefs.ShowFPS,
		Mem:     prefs.ShowMemAlloc,
		OnToggle: func(fps, mem bool) {
			prefs.ShowFPS, prefs.ShowMemAlloc = fps, mem
			if err := config.SavePrefs(config.PrefsPath, prefs); err != nil {
				log.Logf("viewer: save prefs: %v", err)
			}
		},
	})
	term := terminal.New(log, reg)

	log.Logf("viewer: records from %s, scene on view %d, starting on view %d", cfg.RecordsSource, cfg.ViewID, cfg.StartViewID)
	draw := func() {
		term.Draw()
		dbg.Draw()
	}
	win.Run(cfg.StartViewID, term.Update, draw)
}

// newSource builds the record source selected by RECORDS_SOURCE. The returned func releases it.
func newSource(cfg *config.Config) (record.Source, func(), error) {
	switch cfg.RecordsSource {
	case config.SourceYAML:
		return record.File{Path: cfg.RecordsFile}, func() {}, nil
	case config.SourceSQLite:
		store, err := record.OpenSQLite(cfg.RecordsDB)
		if err != nil {
			return nil, nil, err
		}
		return store.Source(cfg.KintoneAppID), func() { _ = store.Close() }, nil
	default:
		return record.NewKintone(cfg.KintoneBaseURL, cfg.KintoneAppID, cfg.KintoneAPIToken), func() {}, nil
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "viewer:", err)
	os.Exit(1)
}
