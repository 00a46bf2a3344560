// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"cogentcore.org/vizscene/data"
	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/transform"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print the nodes of a scene document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.info(cmd.OutOrStdout(), args[0])
		},
	}
}

// info prints the version, the node counts and one line per node of
// the document in the given file.
func (a *app) info(w io.Writer, filename string) error {
	sc, res, err := a.open(filename)
	if err != nil {
		return err
	}
	out := termenv.NewOutput(w)
	version := "unknown"
	if v := sc.LastLoadedVersion(); v != nil {
		version = v.String()
	}
	fmt.Fprintf(w, "%s %s\n", out.String(filename).Bold(), version)
	fmt.Fprintf(w, "expected %d, imported %d, skipped %d\n", res.Expected, res.Imported, res.Skipped)
	for _, n := range sc.Nodes() {
		nb := n.AsNode()
		fmt.Fprintf(w, "%-13s %s %q%s\n", data.Capability(n), out.String(nb.ID).Foreground(termenv.ANSICyan), nb.Name, referenceSummary(nb))
	}
	return nil
}

// referenceSummary returns the references of the node as role=id,id pairs.
func referenceSummary(nb *scene.NodeBase) string {
	var sb strings.Builder
	for _, role := range nb.ReferenceRoles() {
		ids := nb.ReferenceIDs(role)
		if len(ids) == 0 {
			continue
		}
		fmt.Fprintf(&sb, " %s=%s", role, strings.Join(ids, ","))
	}
	return sb.String()
}

func (a *app) mergeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "merge DEST SRC",
		Short: "Import the scene document SRC into DEST",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0]
			}
			return a.merge(cmd.OutOrStdout(), args[0], args[1], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default DEST)")
	return cmd
}

// merge imports the document src into the document dest and writes
// the result to output, printing the renamed IDs.
func (a *app) merge(w io.Writer, dest, src, output string) error {
	sc, _, err := a.open(dest)
	if err != nil {
		return err
	}
	sc.SetURL(src)
	res, err := sc.Import()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "imported %d of %d nodes from %s\n", res.Imported, res.Expected, src)
	for _, id := range slices.Sorted(maps.Keys(res.Renamed)) {
		fmt.Fprintf(w, "renamed %s -> %s\n", id, res.Renamed[id])
	}
	for _, id := range slices.Sorted(maps.Keys(res.Duplicates)) {
		fmt.Fprintf(w, "duplicate %s -> %s\n", id, strings.Join(res.Duplicates[id], " "))
	}
	return sc.Commit(output)
}

func (a *app) hardenCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "harden FILE NODEID",
		Short: "Apply the transform to world of a node to its content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0]
			}
			return a.harden(args[0], args[1], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default FILE)")
	return cmd
}

// harden hardens the transform of the node with the given ID in the
// document in the given file and writes the result to output.
func (a *app) harden(filename, id, output string) error {
	sc, _, err := a.open(filename)
	if err != nil {
		return err
	}
	n := sc.NodeByID(id)
	if n == nil {
		return fmt.Errorf("harden: no node %q in %s", id, filename)
	}
	tn, ok := n.(transform.Transformable)
	if !ok {
		return fmt.Errorf("harden: node %q is a %s, which is not transformable", id, n.ClassName())
	}
	if !tn.AsTransformable().HardenTransform() {
		return fmt.Errorf("harden: cannot harden the transform of node %q", id)
	}
	return sc.Commit(output)
}

func (a *app) configCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the settings in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.settings.Write(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "output format: toml or yaml")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Print the nodes of a scene document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

// watch runs info on the given file, and again whenever it is written,
// until the context is done.
func (a *app) watch(ctx context.Context, w io.Writer, filename string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// editors replace files, so the directory is watched
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		return err
	}
	report := func() {
		if err := a.info(w, filename); err != nil {
			slog.Error("watch", "err", err)
		}
	}
	report()
	target := filepath.Clean(filename)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				report()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch", "err", err)
		}
	}
}
