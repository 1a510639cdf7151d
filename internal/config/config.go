// Package config defines the CLI structure and configuration for ximapperd.
package config

import (
	"github.com/joao678/Xidi-xtended/internal/cmd"
)

type Log struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"XIMAPPERD_LOG_LEVEL"`
	File  string `help:"Log file path (default: none; logs only to console)" env:"XIMAPPERD_LOG_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Serve     cmd.Serve     `cmd:"" help:"Build the default blueprint set and run a simulated mapping/force-feedback loop"`
	Blueprint cmd.Blueprint `cmd:"" help:"Inspect registered blueprints"`
}
