// Command csgbox runs boolean operations on box scenes from the command
// line: a built-in demo scene, Lisp scene scripts, and single operations on
// two axis-aligned boxes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel/brep"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel/sdfx"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/logging"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/manager"
)

// errScript is returned by eval when the script has errors; they have
// already been printed.
var errScript = errors.New("script has errors")

// options holds the persistent flags.
type options struct {
	logLevel string
	epsilon  float64
	kernel   string
}

func (o *options) csgConfig() csg.Config {
	return csg.Config{Epsilon: o.epsilon}
}

func (o *options) newKernel() (kernel.Kernel, error) {
	switch o.kernel {
	case "brep":
		return brep.New(o.csgConfig())
	case "sdfx":
		return sdfx.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q, expected brep or sdfx", o.kernel)
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errScript) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "csgbox",
		Short:         "boolean operations on triangle meshes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.SetLevel(opts.logLevel); err != nil {
				return err
			}
			if err := opts.csgConfig().Validate(); err != nil {
				return err
			}
			if opts.kernel != "brep" && opts.kernel != "sdfx" {
				return fmt.Errorf("unknown kernel %q, expected brep or sdfx", opts.kernel)
			}
			return nil
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level ("+strings.Join(logging.AvailableLevels, ", ")+")")
	flags.Float64Var(&opts.epsilon, "epsilon", csg.DefaultEpsilon, "coplanarity tolerance")
	flags.StringVar(&opts.kernel, "kernel", "brep", "geometry kernel for eval (brep or sdfx)")

	root.AddCommand(
		newDemoCmd(opts),
		newEvalCmd(opts),
		newBooleanCmd(opts),
	)
	return root
}

// demoScene is two overlapping sources, a hole through both and a hole
// that misses them.
var demoScene = []manager.Object{
	{Name: "left", Role: manager.RoleSource, Size: mgl64.Vec3{2, 2, 2}, Material: 1},
	{Name: "right", Role: manager.RoleSource, Size: mgl64.Vec3{2, 2, 2}, Position: mgl64.Vec3{1, 0, 0}, Material: 1},
	{Name: "shaft", Role: manager.RoleHole, Size: mgl64.Vec3{1, 1, 4}, Material: 2},
	{Name: "stray", Role: manager.RoleHole, Size: mgl64.Vec3{1, 1, 1}, Position: mgl64.Vec3{10, 0, 0}, Material: 2},
}

func newDemoCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "build the four-box demo scene",
		Long:  "builds two overlapping source boxes minus two hole boxes through the scene manager",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := manager.DefaultConfig()
			cfg.Epsilon = opts.epsilon
			m, err := manager.New(cfg)
			if err != nil {
				return err
			}
			for _, o := range demoScene {
				if _, err := m.Add(o); err != nil {
					return err
				}
			}

			mesh, err := m.Rebuild(context.Background())
			if err != nil {
				return err
			}
			mesh.PartName = "demo"

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), newMeshData(mesh, colorPalette[0]))
			}
			st := m.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "holes cut: %d of %d\n", st.HolesCut, st.Holes)
			printSummary(cmd.OutOrStdout(), mesh)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the mesh as JSON")
	return cmd
}

func newEvalCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "evaluate a scene script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			k, err := opts.newKernel()
			if err != nil {
				return err
			}

			result := NewApp(k).Evaluate(string(source))
			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else {
				for _, w := range result.Warnings {
					fmt.Fprintf(out, "warning: %s\n", w.Message)
				}
				for _, e := range result.Errors {
					if e.Line > 0 {
						fmt.Fprintf(out, "error: line %d: %s\n", e.Line, e.Message)
						continue
					}
					fmt.Fprintf(out, "error: %s\n", e.Message)
				}
				for _, m := range result.Meshes {
					fmt.Fprintf(out, "%s: %d triangles, volume %.4f\n", m.PartName, m.Triangles, m.Volume)
				}
			}
			if len(result.Errors) > 0 {
				return errScript
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the result as JSON")
	return cmd
}

func newBooleanCmd(opts *options) *cobra.Command {
	var (
		boxA, boxB []float64
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:       "boolean <union|subtract|intersect>",
		Short:     "combine two axis-aligned boxes",
		Long:      "applies a boolean operation to two boxes given as cx,cy,cz,sx,sy,sz",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"union", "subtract", "intersect"},
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := csg.ParseOp(args[0])
			if err != nil {
				return err
			}
			a, err := parseBox(boxA, 1)
			if err != nil {
				return fmt.Errorf("--a: %w", err)
			}
			b, err := parseBox(boxB, 2)
			if err != nil {
				return fmt.Errorf("--b: %w", err)
			}
			eval, err := csg.NewEvaluator(opts.csgConfig())
			if err != nil {
				return err
			}

			mesh, err := eval.Apply(op, a, b)
			if err != nil {
				return err
			}
			mesh.PartName = op.String()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), newMeshData(mesh, colorPalette[0]))
			}
			printSummary(cmd.OutOrStdout(), mesh)
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&boxA, "a", []float64{0, 0, 0, 1, 1, 1}, "first box as cx,cy,cz,sx,sy,sz")
	cmd.Flags().Float64SliceVar(&boxB, "b", []float64{0.5, 0.5, 0.5, 1, 1, 1}, "second box as cx,cy,cz,sx,sy,sz")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the mesh as JSON")
	return cmd
}

// parseBox builds a box mesh from cx,cy,cz,sx,sy,sz.
func parseBox(v []float64, material int) (*kernel.Mesh, error) {
	if len(v) != 6 {
		return nil, fmt.Errorf("want 6 numbers, got %d", len(v))
	}
	for i, n := range v {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("value %d is %v, want a finite number", i+1, n)
		}
	}
	s, err := csg.Box(mgl64.Vec3{v[0], v[1], v[2]}, mgl64.Vec3{v[3], v[4], v[5]}, material)
	if err != nil {
		return nil, err
	}
	return csg.BuildMesh(s), nil
}

func printSummary(w io.Writer, m *kernel.Mesh) {
	min, max := m.BoundingBox()
	fmt.Fprintf(w, "triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(w, "bounds: (%.4f, %.4f, %.4f) - (%.4f, %.4f, %.4f)\n",
		min[0], min[1], min[2], max[0], max[1], max[2])
	fmt.Fprintf(w, "volume: %.4f\n", m.Volume())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
