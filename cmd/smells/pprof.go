package main

import "os"
import "runtime/pprof"

import "github.com/pkg/errors"
import "github.com/urfave/cli/v2"
import "go.uber.org/multierr"

// profile collects a CPU profile into default.pgo while a command runs when
// --pgo is set; the profile suits profile guided optimization builds.
type profile struct {
	file *os.File
}

func (p *profile) start(c *cli.Context) error {
	if !c.Bool("pgo") {
		return nil
	}
	f, err := os.Create("default.pgo")
	if err != nil {
		return errors.Wrap(err, "cannot create profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return multierr.Append(errors.Wrap(err, "cannot start profile"), f.Close())
	}
	p.file = f
	return nil
}

func (p *profile) stop(*cli.Context) error {
	if p.file == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := p.file.Close()
	p.file = nil
	return err
}
