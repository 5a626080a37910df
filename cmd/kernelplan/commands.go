package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/nozzle/kernelplan/cbrng"
	"github.com/nozzle/kernelplan/cpu"
	"github.com/nozzle/kernelplan/dht"
	"github.com/nozzle/kernelplan/plan"
	"github.com/nozzle/kernelplan/quadrature"
)

func newRootsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roots N",
		Short: "Print the Gauss-Hermite nodes and weights of order N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			if _, err := fmt.Sscan(args[0], &n); err != nil {
				return fmt.Errorf("invalid order %q: %w", args[0], err)
			}
			roots, weights, err := quadrature.GaussHermite(n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := range roots {
				fmt.Fprintf(out, "%3d  %+.17e  %.17e\n", i, roots[i], weights[i])
			}
			return nil
		},
	}
	return cmd
}

func newGridCmd() *cobra.Command {
	var modes, order, extra int
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the spatial grid and weights for a mode count and order",
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, weights, err := quadrature.GridAndWeights(modes, order, extra)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d points for %d modes at order %d\n", len(grid), modes, order)
			for i := range grid {
				fmt.Fprintf(out, "%3d  %+.17e  %.17e\n", i, grid[i], weights[i])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&modes, "modes", 8, "number of harmonic modes")
	cmd.Flags().IntVar(&order, "order", 1, "highest exactly transformed power")
	cmd.Flags().IntVar(&extra, "extra", 0, "points beyond the minimum")
	return cmd
}

// rngFlags are shared by the key and random commands.
type rngFlags struct {
	algorithm string
	bitness   int
	words     int
	rounds    int
	seed      int
	key       []uint
}

func (f *rngFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.algorithm, "algorithm", "philox", "philox or threefry")
	cmd.Flags().IntVar(&f.bitness, "bitness", 64, "counter word width, 32 or 64")
	cmd.Flags().IntVar(&f.words, "words", 4, "counter words, 2 or 4")
	cmd.Flags().IntVar(&f.rounds, "rounds", 0, "bijection rounds (0 = algorithm default)")
	cmd.Flags().IntVar(&f.seed, "seed", envInt(envSeed, -1), "seed value (-1 = fresh entropy)")
	cmd.Flags().UintSliceVar(&f.key, "key", nil, "explicit 32-bit key words, overriding --seed")
}

func (f *rngFlags) params() (cbrng.Params, error) {
	alg, err := cbrng.ParseAlgorithm(f.algorithm)
	if err != nil {
		return cbrng.Params{}, err
	}
	p := cbrng.Params{Algorithm: alg, Bitness: f.bitness, Words: f.words, Rounds: f.rounds}.Normalize()
	return p, p.Validate()
}

func (f *rngFlags) seedValue() cbrng.Seed {
	switch {
	case len(f.key) > 0:
		words := make([]uint32, len(f.key))
		for i, w := range f.key {
			words[i] = uint32(w)
		}
		return cbrng.SeedKey(words...)
	case f.seed >= 0:
		return cbrng.SeedValue(uint32(f.seed))
	}
	return cbrng.Seed{}
}

func newKeyCmd() *cobra.Command {
	var f rngFlags
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Derive the base key for a generator",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.params()
			if err != nil {
				return err
			}
			key, err := cbrng.DeriveKey(p, f.seedValue())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%v, %d key words from %v\n", p, p.KeyWords(), f.seedValue())
			for i, w := range key {
				fmt.Fprintf(out, "key[%d] = %#0*x\n", i, p.Bitness/4, w)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newRandomCmd(opts *options) *cobra.Command {
	var (
		f            rngFlags
		shape, batch []int
		dist, dtype  string
		low, high    float64
	)
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Draw samples on the host and print summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.params()
			if err != nil {
				return err
			}
			dt := plan.ParseDType(dtype)
			if dt == plan.Invalid {
				return fmt.Errorf("unknown dtype %q", dtype)
			}
			d, err := distribution(cmd, dist, p.Bitness, low, high)
			if err != nil {
				return err
			}
			counters, err := cbrng.NewCounters(p, shape...)
			if err != nil {
				return err
			}
			cfg := cbrng.Config{Params: p, Seed: f.seedValue(), Distribution: d}
			randoms, _, err := opts.planner().Random(context.Background(), counters, dt, batch, cfg)
			if err != nil {
				return err
			}
			return summarize(cmd, randoms)
		},
	}
	f.register(cmd)
	cmd.Flags().IntSliceVar(&shape, "shape", []int{1024}, "counter grid shape, one work-item per element")
	cmd.Flags().IntSliceVar(&batch, "batch", []int{16}, "samples drawn per work-item")
	cmd.Flags().StringVar(&dist, "dist", "uniform_float", "uniform_integer, uniform_float, normal_bm or gamma")
	cmd.Flags().StringVar(&dtype, "dtype", "float64", "output dtype")
	cmd.Flags().Float64Var(&low, "a", 0, "first distribution parameter (min, mean or shape)")
	cmd.Flags().Float64Var(&high, "b", 1, "second distribution parameter (max, std or scale)")
	return cmd
}

// distribution returns the named distribution, taking its parameters from
// --a and --b when either was set.
func distribution(cmd *cobra.Command, name string, bitness int, a, b float64) (cbrng.Distribution, error) {
	d, err := cbrng.ParseDistribution(name, bitness)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("a") && !cmd.Flags().Changed("b") {
		return d, nil
	}
	switch d.(type) {
	case cbrng.UniformInteger:
		return cbrng.UniformInteger{Min: int64(a), Max: int64(b)}, nil
	case cbrng.UniformFloat:
		return cbrng.UniformFloat{Min: a, Max: b}, nil
	case cbrng.NormalBM:
		return cbrng.NormalBM{Mean: a, Std: b}, nil
	case cbrng.Gamma:
		return cbrng.Gamma{Shape: a, Scale: b}, nil
	}
	return d, nil
}

func summarize(cmd *cobra.Command, randoms *plan.Array) error {
	data := stats.Float64Data(randoms.Float)
	if randoms.Float == nil {
		data = make(stats.Float64Data, randoms.Len())
		for i := range data {
			if randoms.Desc.DType.IsSigned() {
				data[i] = float64(randoms.Int(i))
			} else {
				data[i] = float64(randoms.Uint[i])
			}
		}
	}
	mean, err := data.Mean()
	if err != nil {
		return err
	}
	std, err := data.StandardDeviation()
	if err != nil {
		return err
	}
	lo, _ := data.Min()
	hi, _ := data.Max()
	median, _ := data.Median()
	q, err := stats.Quartile(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "samples  %d %v\n", len(data), randoms.Desc)
	fmt.Fprintf(out, "mean     %.6g\n", mean)
	fmt.Fprintf(out, "std      %.6g\n", std)
	fmt.Fprintf(out, "min      %.6g\n", lo)
	fmt.Fprintf(out, "q1       %.6g\n", q.Q1)
	fmt.Fprintf(out, "median   %.6g\n", median)
	fmt.Fprintf(out, "q3       %.6g\n", q.Q3)
	fmt.Fprintf(out, "max      %.6g\n", hi)
	return nil
}

func newDHTCmd(opts *options) *cobra.Command {
	var (
		modes, points, axes []int
		order               int
		inverse, complexOut bool
	)
	cmd := &cobra.Command{
		Use:   "dht",
		Short: "Plan a harmonic transform and print its operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(points) == 0 {
				for _, m := range modes {
					points = append(points, quadrature.SpatialPointCount(m, max(order, 1), 0))
				}
			}
			dtype := plan.Float64
			if complexOut {
				dtype = plan.Complex128
			}
			output, input := plan.Desc(dtype, modes...), plan.Desc(dtype, points...)
			if inverse {
				output, input = input, output
			}
			var dopts dht.Options
			dopts.Inverse, dopts.Order = inverse, order
			if cmd.Flags().Changed("axes") {
				dopts.Axes = axes
			}
			p, err := opts.planner().DHT(output, input, dopts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&modes, "modes", []int{8}, "mode counts per axis")
	cmd.Flags().IntSliceVar(&points, "points", nil, "grid sizes per axis (default: the minimum)")
	cmd.Flags().IntSliceVar(&axes, "axes", nil, "transformed axes (default: all)")
	cmd.Flags().IntVar(&order, "order", 1, "highest exactly transformed power")
	cmd.Flags().BoolVar(&inverse, "inverse", false, "map modes to grid values")
	cmd.Flags().BoolVar(&complexOut, "complex", false, "plan for complex128 arrays")
	return cmd
}

func newDeviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Describe the host executor",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := cpu.Device()
			fmt.Fprintf(cmd.OutOrStdout(), "arch      %s\nworkers   %d\nfeatures  %s\n",
				d.Arch, d.Workers, strings.Join(d.Features, " "))
			return nil
		},
	}
}
