package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/scadsim/internal/automation"
	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/export"
	"github.com/san-kum/scadsim/internal/physics"
	"github.com/san-kum/scadsim/internal/shapes"
	"github.com/san-kum/scadsim/internal/sim"
	"github.com/san-kum/scadsim/internal/storage"
	"github.com/san-kum/scadsim/internal/tui"
	"github.com/san-kum/scadsim/internal/viz"
	"github.com/spf13/cobra"
)

func listCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list [module]",
		Short: "list modules, or the classes of a module",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range shapes.ModuleNames() {
					m, err := shapes.LookupModule(name)
					if err != nil {
						return err
					}
					fmt.Printf("%s\t%s\n", viz.Title.Render(name), viz.Subtle.Render(m.Doc))
				}
				return nil
			}

			m, err := shapes.LookupModule(args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CLASS\tEXAMPLES\tPARTS\tDOC")
			for _, cls := range m.Classes() {
				parts := "?"
				if built, err := cls.Parts(config.DefaultExample); err == nil {
					parts = strings.Join(shapes.PartNames(built), ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cls.Name, strings.Join(cls.ExampleNames(), ","), parts, cls.Doc)
			}
			return w.Flush()
		},
	}
}

func presetsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets for --module",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(o.module)
			if len(presets) == 0 {
				fmt.Printf("no presets for module: %s\n", o.module)
				return nil
			}
			fmt.Printf("presets for %s:\n", o.module)
			for _, p := range presets {
				cfg := config.GetPreset(o.module, p)
				fmt.Printf("  %-10s %s/%s\n", p, cfg.Shape, cfg.Example)
			}
			return nil
		},
	}
}

func selftestCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "drop two joined cubes built directly from CSG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o, false)
			if err != nil {
				return err
			}
			_, err = newApp(cfg).SelfTest(cmd.Context(), cfg)
			return err
		},
	}
}

func exportCmd(o *options) *cobra.Command {
	var out, svg string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the resolved model as binary STL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o, false)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("%s_%s.stl", cfg.Shape, cfg.Example)
			}
			m, err := newApp(cfg).Export(cfg, out, svg)
			if err != nil {
				return err
			}
			mass, com, _ := m.MassProperties()
			fmt.Println(viz.Success.Render("wrote " + out))
			fmt.Printf("triangles: %d\nmass: %.4f\ncentre of mass: (%.4f, %.4f, %.4f)\n",
				m.Mesh.Len(), mass, com.X, com.Y, com.Z)
			if svg != "" {
				fmt.Println(viz.Success.Render("wrote " + svg))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "STL output path (default <shape>_<example>.stl)")
	cmd.Flags().StringVar(&svg, "svg", "", "also write a wireframe preview")
	return cmd
}

func browseCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "pick a shape interactively, then drop it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			choice, err := tui.Browse()
			if err != nil {
				return err
			}
			if choice == nil {
				return nil
			}
			cfg, err := resolveConfig(cmd, o, false)
			if err != nil {
				return err
			}
			cfg.Module, cfg.Shape, cfg.Example = choice.Module, choice.Shape, choice.Example
			_, err = newApp(cfg).Run(cmd.Context(), cfg)
			return err
		},
	}
}

func settleCmd(o *options) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "drop every class of --module headless and report where it rests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o, false)
			if err != nil {
				return err
			}
			outcomes, err := newApp(cfg).Settle(cmd.Context(), cfg, workers)
			if err != nil {
				return err
			}
			return printOutcomes(outcomes)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent sessions")
	return cmd
}

func sweepCmd(o *options) *cobra.Command {
	var sweep automation.HeightSweep
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "drop the resolved model from a range of heights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o, false)
			if err != nil {
				return err
			}
			a := newApp(cfg)
			m, err := a.Resolve(cfg)
			if err != nil {
				return err
			}
			set, err := sim.FromConfig(cfg)
			if err != nil {
				return err
			}
			results, err := automation.RunSweep(cmd.Context(), sweep, m, physics.NewEngine(), set)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DROP\tLOWEST\tCOM Z\tIMPACT\tLOSS\tSETTLED")
			for _, r := range results {
				o := r.Outcome
				if o.Err != nil {
					fmt.Fprintf(w, "%.2f\t-\t-\t-\t-\t%s\n", r.DropHeight, viz.Failure.Render(o.Err.Error()))
					continue
				}
				fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\t%.2f m/s\t%.0f%%\t%s\n", r.DropHeight, o.Lowest, o.Height,
					o.Metrics["impact_speed"], 100*o.Metrics["energy_loss"], settled(o))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&sweep.Min, "min", 0.5, "lowest drop height")
	cmd.Flags().Float64Var(&sweep.Max, "max", 5, "highest drop height")
	cmd.Flags().IntVar(&sweep.Count, "count", 5, "number of heights")
	cmd.Flags().IntVar(&sweep.Workers, "workers", 4, "concurrent sessions")
	return cmd
}

func scenarioCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of drops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(cmd, o, false)
			if err != nil {
				return err
			}
			fmt.Println(viz.Title.Render(sc.Name))
			if sc.Description != "" {
				fmt.Println(viz.Subtle.Render(sc.Description))
			}
			return automation.RunScenario(cmd.Context(), sc, cfg, newApp(cfg), os.Stdout)
		},
	}
}

func runsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(o.dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSHAPE\tTIME\tSTEPS\tSAMPLES\tMODE")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s/%s/%s\t%s\t%d\t%d\t%s\n",
					run.ID,
					run.Module, run.Shape, run.Example,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Steps,
					run.Samples,
					run.Mode,
				)
			}
			return w.Flush()
		},
	}
}

func plotCmd(o *options) *cobra.Command {
	var column, svg string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the height of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]
			st := storage.New(o.dataDir)
			meta, err := st.Load(runID)
			if err != nil {
				return err
			}
			if column == "" {
				header, _, _, err := st.LoadStates(runID)
				if err != nil {
					return err
				}
				if column = storage.HeightColumn(header); column == "" {
					return fmt.Errorf("run %s recorded no moving body", runID)
				}
			}
			times, values, err := st.LoadSeries(runID, column)
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("shape: %s/%s/%s\n", meta.Module, meta.Shape, meta.Example)
			fmt.Printf("samples: %d\n\n", len(values))
			fmt.Println(viz.Graph.Render(viz.PlotSeries(values, 80, 12, column+" vs time")))

			if svg != "" {
				if err := export.WriteFile(svg, export.SeriesToSVG(times, values, 800, 300, "#00ccff")); err != nil {
					return err
				}
				fmt.Println(viz.Success.Render("wrote " + svg))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "state column (default first body height)")
	cmd.Flags().StringVar(&svg, "svg", "", "also write the plot as SVG")
	return cmd
}

func exportJSONCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(o.dataDir).ExportJSON(os.Stdout, args[0])
		},
	}
}

func printOutcomes(outcomes []sim.Outcome) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tLOWEST\tCOM Z\tIMPACT\tSETTLED\tSTATE")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%s\n", o.Name, viz.Failure.Render(o.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.2f m/s\t%s\t%s\n",
			o.Name, o.Lowest, o.Height, o.Metrics["impact_speed"], settled(o), restState(o))
	}
	return w.Flush()
}

func settled(o sim.Outcome) string {
	if t, ok := o.Metrics["settle_time"]; ok && t >= 0 {
		return fmt.Sprintf("%.2fs", t)
	}
	return "-"
}

func restState(o sim.Outcome) string {
	if o.Sleeping {
		return viz.StatusResting.Render("resting")
	}
	return viz.StatusFalling.Render("moving")
}
