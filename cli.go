package baseline

import (
	"context"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/reporters"
)

// Main runs the command line for the suites declared by define and exits
// with the number of tests that got slower than baseline.
func Main(define func(*bench.Builder)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	slower, err := Execute(ctx, define, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		klog.ErrorS(err, "Benchmark run failed")
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
	os.Exit(exitCode(slower))
}

// exitCode caps the slower count to the largest portable exit status.
func exitCode(slower int) int {
	return min(slower, 255)
}

// Execute parses args, runs the suites declared by define and returns the
// number of tests that got slower than baseline. Reports go to out.
func Execute(ctx context.Context, define func(*bench.Builder), args []string, out io.Writer) (int, error) {
	var slower int
	cmd := newCommand(out, func(ctx context.Context, opts Options) error {
		var err error
		slower, err = NewProgram(opts, define).Run(ctx)
		return err
	})
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return slower, err
	}
	return slower, nil
}

func newCommand(out io.Writer, run func(ctx context.Context, opts Options) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BASELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "baseline",
		Short:         "Run micro-benchmarks and compare them with a recorded baseline",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool("reporters") {
				fmt.Fprintln(out)
				for _, name := range reporters.Names() {
					fmt.Fprintf(out, "    %s\n", name)
				}
				fmt.Fprintln(out)
				return nil
			}

			file, err := loadConfiguration(v.GetString("config"))
			if err != nil {
				return err
			}
			c := flagConfiguration(v).applyDefaults(file).applyDefaults(defaultConfiguration())
			klog.V(2).InfoS("Using configuration", "maxTime", c.MaxTime, "timeout", c.Timeout, "threshold", *c.Threshold,
				"confidence", c.Confidence, "reporter", c.Reporter, "baseline", c.Baseline, "update", *c.Update)

			opts, err := c.options(out)
			if err != nil {
				return err
			}
			if opts.Commit, err = headCommit("."); err != nil {
				klog.ErrorS(err, "Unable to determine the current commit")
			}
			return run(cmd.Context(), opts)
		},
	}
	cmd.SetOut(out)

	addFlags(cmd.Flags())
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}

func addFlags(fs *pflag.FlagSet) {
	fs.StringP("baseline", "b", "", "full path to file to use for baseline")
	fs.BoolP("colors", "c", false, "force enabling of colors")
	fs.BoolP("no-colors", "C", false, "force disabling of colors")
	fs.StringP("max-time", "m", "", "maximum time a test is sampled, in seconds or as a duration [2s]")
	fs.StringP("reporter", "R", "", "specify the reporter to use [default]")
	fs.StringP("timeout", "t", "", "timeout of asynchronous actions, in milliseconds or as a duration [60s]")
	fs.Float64P("threshold", "T", 0, "minimum reported percent difference from baseline [10]")
	fs.Float64("confidence", 0, "confidence level of baseline comparisons, in percent [95]")
	fs.BoolP("update", "u", false, "update baseline")
	fs.String("config", "", "YAML file with default options")
	fs.Bool("reporters", false, "display available reporters")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
}

// flagConfiguration collects the options set on the command line or
// through BASELINE_* environment variables.
func flagConfiguration(v *viper.Viper) *Configuration {
	c := &Configuration{
		MaxTime:    v.GetString("max-time"),
		Timeout:    v.GetString("timeout"),
		Confidence: v.GetFloat64("confidence"),
		Reporter:   v.GetString("reporter"),
		Baseline:   v.GetString("baseline"),
	}
	if v.IsSet("threshold") {
		threshold := v.GetFloat64("threshold")
		c.Threshold = &threshold
	}
	if v.IsSet("update") {
		update := v.GetBool("update")
		c.Update = &update
	}
	switch {
	case v.GetBool("no-colors"):
		c.Colors = new(bool)
	case v.GetBool("colors"):
		colors := true
		c.Colors = &colors
	}
	return c
}
