// Package app wires the card pipeline from configuration. The server and
// the CLI both start from here.
package app

import (
	"fmt"
	"image/color"

	"github.com/youruser/eidqr/internal/card"
	"github.com/youruser/eidqr/internal/config"
	"github.com/youruser/eidqr/internal/export"
	"github.com/youruser/eidqr/internal/fonts"
	"github.com/youruser/eidqr/internal/raster"
	"github.com/youruser/eidqr/internal/render"
	"github.com/youruser/eidqr/internal/templates"
)

// App holds the shared, read-only parts of the pipeline.
type App struct {
	Config   *config.Config
	Registry *templates.Registry
	Fonts    *fonts.Library
	Renderer *render.Renderer
	Raster   raster.Rasterizer
}

// New loads templates, starts font loading and picks the raster backend.
// Fonts finish loading in the background; exports wait for them.
func New(cfg *config.Config) (*App, error) {
	reg := templates.Default()
	if cfg.Templates.File != "" {
		var err error
		if reg, err = templates.LoadFile(cfg.Templates.File); err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
	}

	lib := fonts.Load(cfg.FontDir)
	r, err := raster.New(cfg.RasterBackend, lib)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Registry: reg,
		Fonts:    lib,
		Renderer: render.New(reg),
		Raster:   r,
	}, nil
}

// NewCard returns an empty card using the configured default template policy.
func (a *App) NewCard() *card.State {
	return card.New(a.Registry, card.DefaultPolicy(a.Config.Templates.Default))
}

// NewExporter returns an exporter with the configured scale and border policy.
func (a *App) NewExporter(opts ...export.Option) *export.Exporter {
	ro := raster.Options{
		Scale:          a.Config.Export.Scale,
		Background:     color.White,
		SuppressBorder: a.Config.Export.SuppressBorder,
	}
	opts = append([]export.Option{export.WithRasterOptions(ro)}, opts...)
	return export.New(a.Renderer, a.Raster, a.Fonts, opts...)
}

// NewSession returns a fresh card and exporter pair.
func (a *App) NewSession() (*card.State, *export.Exporter) {
	return a.NewCard(), a.NewExporter()
}
