// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

var (
	configPath      *string
	inputPath       *string
	outputPath      *string
	baseURL         *string
	lookupTimeout   *time.Duration
	rateLimit       *float64
	workerNumber    *uint
	resolve         *bool
	resolverAddr    *string
	quiet           *bool
	indentation     *uint
	spinnerInterval *time.Duration
	debug           *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	var cfg Config
	rootCmd = &cobra.Command{
		Use:   "addrdig [flags] [address|name...]",
		Short: "addrdig looks up what Shodan's InternetDB knows about IPv4 addresses",
		Long: `addrdig looks up what Shodan's InternetDB knows about IPv4 addresses.

Entities to look up are taken from a JSON input file (--input) and/or from the
command line arguments. Only IPv4 addresses are looked up, each address only
once. With --resolve, domain names are resolved into their IPv4 addresses
first. The results are written as a JSON array, one record per entity.`,
		Version: "0.9",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = configure(cmd)
			if err != nil {
				return err
			}
			if *inputPath == "" && len(args) == 0 {
				return fmt.Errorf("nothing to look up: neither --input nor addresses given")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			return EnrichAndReport(cmd.Context(), cfg, *inputPath, *outputPath, args,
				cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	// Sets up the flags.
	configPath = rootCmd.PersistentFlags().String(
		"config", "", "YAML configuration file")
	inputPath = rootCmd.PersistentFlags().StringP(
		"input", "i", "", "JSON file with entities to look up, or \"-\" for stdin")
	outputPath = rootCmd.PersistentFlags().StringP(
		"output", "o", "", "file to write JSON results to instead of stdout")
	baseURL = rootCmd.PersistentFlags().String(
		"base-url", "", "base URL of the lookup service")
	lookupTimeout = rootCmd.PersistentFlags().Duration(
		"timeout", 0, "timeout of individual lookups")
	rateLimit = rootCmd.PersistentFlags().Float64(
		"rate", 0, "maximum lookups per second, 0 for unlimited")
	workerNumber = rootCmd.PersistentFlags().Uint(
		"workers", 0, "number of lookups in flight")
	resolve = rootCmd.PersistentFlags().Bool(
		"resolve", false, "resolve domain names into IPv4 addresses to look up")
	resolverAddr = rootCmd.PersistentFlags().String(
		"resolver", "", "DNS resolver address for --resolve")
	quiet = rootCmd.PersistentFlags().BoolP(
		"quiet", "q", false, "no live progress display")
	indentation = rootCmd.PersistentFlags().Uint(
		"indent", 0, "indentation width")
	spinnerInterval = rootCmd.PersistentFlags().Duration(
		"spinner", 0, "spinner interval")
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	return
}

// configure loads the configuration file, if any, and then applies the flags
// explicitly set on the command line.
func configure(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Service.BaseURL = *baseURL
	}
	if flags.Changed("timeout") {
		cfg.Service.Timeout = *lookupTimeout
	}
	if flags.Changed("rate") {
		cfg.Service.RateLimit = *rateLimit
	}
	if flags.Changed("workers") {
		cfg.Workers = int(*workerNumber)
	}
	if flags.Changed("resolve") {
		cfg.Resolver.Enabled = *resolve
	}
	if flags.Changed("resolver") {
		cfg.Resolver.Address = *resolverAddr
	}
	if flags.Changed("quiet") {
		cfg.Display.Live = !*quiet
	}
	if flags.Changed("indent") {
		cfg.Display.Indentation = int(*indentation)
	}
	if flags.Changed("spinner") {
		cfg.Display.SpinnerInterval = *spinnerInterval
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
