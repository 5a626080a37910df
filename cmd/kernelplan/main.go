// Command kernelplan inspects quadrature grids, derives generator keys,
// draws random samples and plans harmonic transforms from the command line.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nozzle/kernelplan"
)

// Environment variables read after loading an optional .env file.
const (
	envWorkers = "KERNELPLAN_WORKERS"
	envSeed    = "KERNELPLAN_SEED"
)

type options struct {
	workers int
	verbose bool
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("kernelplan: reading .env: %v", err)
	}

	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "kernelplan",
		Short:         "Counter-based random numbers and harmonic transforms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().IntVar(&opts.workers, "workers", envInt(envWorkers, 0), "worker goroutines (0 = all cores)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newRootsCmd(),
		newGridCmd(),
		newKeyCmd(),
		newRandomCmd(opts),
		newDHTCmd(opts),
		newDeviceCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (o *options) planner() *kernelplan.Planner {
	config := kernelplan.DefaultConfig()
	config.NumWorkers = o.workers
	config.Verbose = o.verbose
	return kernelplan.New(config)
}

func envInt(key string, def int64) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return int(n)
		}
		log.Printf("kernelplan: ignoring %s=%q", key, v)
	}
	return int(def)
}
