package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/retain/internal/demo"
	"github.com/vango-dev/retain/pkg/snapshot"
)

func demoCmd(load loader) *cobra.Command {
	var (
		showOps bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted session against an in-memory canvas",
		Long: `Mount the demo app on an in-memory document, play a short script of
clicks and inputs, and print the canvas operations each step caused.

Examples:
  retain demo
  retain demo --ops
  retain demo --snapshot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := cfg.Logger(os.Stderr)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			reg := prometheus.NewRegistry()
			s, err := newSession(ctx, cfg, logger, reg)
			if err != nil {
				return err
			}
			success("mounted (%d ops)", len(s.rec.Ops()))
			printOps(s, showOps)

			for _, step := range demo.Script {
				s.rec.Reset()
				if err := demo.Play(s.doc, step); err != nil {
					return err
				}
				s.loop.RunPending()
				success("%s %s (%d ops)", step.Event, step.Selector, len(s.rec.Ops()))
				printOps(s, showOps)
			}

			fmt.Println()
			fmt.Println(s.doc.InnerHTML(s.doc.Root()))

			if !save {
				return nil
			}
			store, err := snapshot.FromConfig(cfg.Snapshot)
			if err != nil {
				return err
			}
			key, err := store.Save(ctx, snapshot.Snapshot{
				Name: cfg.Name,
				HTML: s.doc.InnerHTML(s.doc.Root()),
				Seq:  s.tap.Seq(),
			})
			if err != nil {
				return err
			}
			success("snapshot saved as %s", key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showOps, "ops", false, "Print every canvas operation as JSON")
	cmd.Flags().BoolVar(&save, "snapshot", false, "Save the final canvas to the configured snapshot store")
	return cmd
}

func printOps(s *session, show bool) {
	if !show {
		return
	}
	for _, op := range s.rec.Ops() {
		b, _ := json.Marshal(op)
		info("%s", b)
	}
}
