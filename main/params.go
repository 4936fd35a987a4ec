// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/contractvm/contractvm"
)

const (
	versionKey    = "version"
	configFileKey = "config-file"
	httpHostKey   = "http-host"
	httpPortKey   = "http-port"
	logLevelKey   = "log-level"
	gasLimitKey   = "gas-limit"

	envPrefix = "contractvm"
)

type params struct {
	printVersion bool
	httpAddr     string
	logLevel     log.Lvl
	vmConfig     contractvm.Config
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(contractvm.Name, flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quit")
	fs.String(configFileKey, "", "Path to a JSON file holding the VM config")
	fs.String(httpHostKey, "127.0.0.1", "Address the API server listens on")
	fs.Uint(httpPortKey, 9650, "Port the API server listens on")
	fs.String(logLevelKey, "info", "Log level (crit, error, warn, info, debug)")
	fs.Uint64(gasLimitKey, contractvm.DefaultConfig().GasLimit, "Gas budget of the VM. Overrides the config file")

	return fs
}

// getViper returns the viper environment for the binary. Every flag can also
// be set through a CONTRACTVM_ prefixed environment variable.
func getViper(args []string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet(contractvm.Name, pflag.ContinueOnError)
	fs.AddGoFlagSet(buildFlagSet())
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

func parseParams(args []string) (*params, error) {
	v, err := getViper(args)
	if err != nil {
		return nil, err
	}

	var configBytes []byte
	if path := v.GetString(configFileKey); path != "" {
		configBytes, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("couldn't read config file %q: %w", path, err)
		}
	}
	vmConfig, err := contractvm.ParseConfig(configBytes)
	if err != nil {
		return nil, err
	}
	if v.IsSet(gasLimitKey) {
		vmConfig.GasLimit = v.GetUint64(gasLimitKey)
	}

	logLevel, err := log.LvlFromString(v.GetString(logLevelKey))
	if err != nil {
		return nil, err
	}

	return &params{
		printVersion: v.GetBool(versionKey),
		httpAddr:     net.JoinHostPort(v.GetString(httpHostKey), strconv.FormatUint(uint64(v.GetUint(httpPortKey)), 10)),
		logLevel:     logLevel,
		vmConfig:     vmConfig,
	}, nil
}
