// Command decalmap inspects meshes and computes geodesic distances and decal
// UV charts on them.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/expmap/expmap"
	"github.com/notargets/expmap/heat"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg     Config
	log     *logrus.Logger
	out     io.Writer
	cfgPath string
	verbose bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{cfg: DefaultConfig(), out: stdout}
	a.log = logrus.New()
	a.log.SetOutput(stderr)
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	root := &cobra.Command{
		Use:           "decalmap",
		Short:         "Geodesic distance and exponential-map decal charts on polygon meshes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "TOML configuration file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	bindFlags(pf, &a.cfg)

	root.AddCommand(a.infoCmd(), a.distanceCmd(), a.normalsCmd(), a.uvCmd())
	return root
}

func (a *app) configure(cmd *cobra.Command) error {
	if a.cfgPath != "" {
		c, err := LoadConfig(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = c
	}
	if err := applyFlags(cmd.Flags(), &a.cfg); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}
	heat.SetLogger(a.log)
	expmap.SetLogger(a.log)
	a.log.WithField("config", fmt.Sprintf("%+v", a.cfg)).Debug("configured")
	return nil
}
