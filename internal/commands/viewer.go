package commands

import (
	"errors"
	"fmt"
)

// Views switches what the window shows.
type Views interface {
	Show(viewID int)
	Hide()
	View() (viewID int, shown bool)
}

// Overlay toggles the debug readouts.
type Overlay interface {
	SetShowFPS(show bool)
	SetShowMemAlloc(show bool)
}

// Printer receives command output.
type Printer interface {
	Log(line string)
}

// Viewer is what the viewer commands act on.
type Viewer struct {
	Views   Views
	Overlay Overlay
	Out     Printer
	// FPS and Mem are the overlay states at registration.
	FPS, Mem bool
	// OnToggle, if set, is called after fps or mem changes, e.g. to persist preferences.
	OnToggle func(fps, mem bool)
}

// RegisterViewer adds the viewer commands: view, reload, hide, fps, mem and help.
func RegisterViewer(r *Registry, v Viewer) {
	fps, mem := v.FPS, v.Mem
	views := v.Views

	viewFS := newFlagSet("view")
	viewID := viewFS.Int("id", 0, "view ID to show")
	r.Register("view", "--id N", viewFS, func() error {
		defer func() { *viewID = 0 }()
		if *viewID <= 0 {
			return errors.New("view: --id must be a positive view ID")
		}
		views.Show(*viewID)
		return nil
	})

	r.Register("reload", "", newFlagSet("reload"), func() error {
		id, shown := views.View()
		if !shown {
			return errors.New("reload: no view is shown")
		}
		views.Show(id)
		return nil
	})

	r.Register("hide", "", newFlagSet("hide"), func() error {
		views.Hide()
		return nil
	})

	toggle := func(name string, state *bool, apply func(bool)) {
		fs := newFlagSet(name)
		show := fs.Bool("show", false, "show the readout")
		hide := fs.Bool("hide", false, "hide the readout")
		r.Register(name, "--show|--hide", fs, func() error {
			defer func() { *show, *hide = false, false }()
			switch {
			case *show && *hide:
				return fmt.Errorf("%s: --show and --hide are exclusive", name)
			case *show:
				*state = true
			case *hide:
				*state = false
			default:
				return fmt.Errorf("%s: need --show or --hide", name)
			}
			apply(*state)
			if v.OnToggle != nil {
				v.OnToggle(fps, mem)
			}
			return nil
		})
	}
	toggle("fps", &fps, v.Overlay.SetShowFPS)
	toggle("mem", &mem, v.Overlay.SetShowMemAlloc)

	r.Register("help", "", newFlagSet("help"), func() error {
		for _, line := range r.Usage() {
			v.Out.Log(line)
		}
		return nil
	})
}
