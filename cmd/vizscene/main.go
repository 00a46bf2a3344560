// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command vizscene inspects, merges and transforms scene documents.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cogentcore.org/vizscene/base/errors"
	"cogentcore.org/vizscene/base/logx"
	"cogentcore.org/vizscene/config"
	"cogentcore.org/vizscene/data"
	"cogentcore.org/vizscene/links"
	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/transform"
	"cogentcore.org/vizscene/views"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logx.SetDefaultLogger()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by the commands.
type app struct {
	configFile  string
	verbose     bool
	veryVerbose bool
	quiet       bool

	settings *config.Settings
}

func newRootCmd() *cobra.Command {
	a := &app{settings: config.Default()}
	root := &cobra.Command{
		Use:          "vizscene",
		Short:        "Inspect, merge and transform scene documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "settings file (default ~/.vizscene/settings.toml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "print info messages")
	pf.BoolVar(&a.veryVerbose, "vv", false, "print debug messages")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only print errors")

	root.AddCommand(a.infoCmd(), a.mergeCmd(), a.hardenCmd(), a.watchCmd(), a.configCmd())
	return root
}

// configure loads the settings and sets the log level: the verbosity
// flags take precedence over the settings file.
func (a *app) configure(cmd *cobra.Command) error {
	s, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	errors.Log(s.Validate())
	a.settings = s
	logx.UserLevel = s.Level()
	if a.veryVerbose || a.verbose || a.quiet {
		logx.UserLevel = logx.LevelFromFlags(a.veryVerbose, a.verbose, a.quiet)
	}
	return nil
}

// newScene returns a new scene with every node class registered, with
// its link logic.
func (a *app) newScene() (*scene.Scene, *links.Logic) {
	sc := scene.NewScene()
	transform.RegisterNodes(sc)
	data.RegisterNodes(sc)
	views.RegisterNodes(sc)
	lg := links.New(sc)
	a.settings.Apply(sc, lg)
	return sc, lg
}

// open returns a new scene with the document in the given file.
func (a *app) open(filename string) (*scene.Scene, scene.ImportResult, error) {
	sc, _ := a.newScene()
	sc.SetURL(filename)
	res, err := sc.Connect()
	return sc, res, err
}
