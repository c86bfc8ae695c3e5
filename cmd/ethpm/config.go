// Copyright 2026 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereumpm/ethpm/internal/flags"
	"github.com/ethereumpm/ethpm/params"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Show configuration values",
	ArgsUsage:   "",
	Description: `The dumpconfig command shows configuration values.`,
}

// environment variables overriding the configuration file
const (
	envEnvironment       = "ETHPM_ENV"
	envNetwork           = "ETHPM_NETWORK"
	envDataDir           = "ETHPM_DATADIR"
	envRPCURL            = "ETHPM_RPC"
	envExplorerURL       = "ETHPM_EXPLORER_URL"
	envExplorerKey       = "ETHPM_EXPLORER_APIKEY"
	envExplorerRateLimit = "ETHPM_EXPLORER_RATELIMIT"
	envSwarmGateway      = "ETHPM_SWARM_GATEWAY"
	envOrigin            = "ETHPM_ORIGIN"
	envTimeout           = "ETHPM_TIMEOUT"
	envCacheLimit        = "ETHPM_CACHE"
	envHTTPHost          = "ETHPM_HTTP_HOST"
	envHTTPPort          = "ETHPM_HTTP_PORT"
	envCORSOrigins       = "ETHPM_CORS"
	envInboxWorkers      = "ETHPM_INBOX_WORKERS"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// ethpmConfig is the configuration of the messenger and its endpoints.
// Empty endpoint fields are filled from the environment's defaults.
type ethpmConfig struct {
	Environment string
	Network     string
	DataDir     string

	RPCURL            string
	ExplorerURL       string
	ExplorerKey       string `toml:",omitempty"`
	ExplorerRateLimit int
	SwarmGateway      string
	Origin            string

	Timeout      time.Duration
	CacheLimit   int
	InboxWorkers int

	HTTPHost    string
	HTTPPort    int
	CORSOrigins []string `toml:",omitempty"`
}

func defaultConfig() *ethpmConfig {
	return &ethpmConfig{
		DataDir:           flags.DefaultDataDir(),
		ExplorerRateLimit: 5,
		SwarmGateway:      params.DefaultSwarmGateway,
		Timeout:           60 * time.Second,
		CacheLimit:        256,
		InboxWorkers:      4,
		HTTPHost:          "localhost",
		HTTPPort:          7010,
	}
}

// buildConfig assembles the configuration: defaults, then the config file,
// then environment variables, then command line flags.
func buildConfig(ctx *cli.Context) (*ethpmConfig, error) {
	cfg := defaultConfig()
	if err := configFileOverride(cfg, ctx); err != nil {
		return nil, err
	}
	if err := envVarsOverride(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	cmdLineOverride(cfg, ctx)
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	log.Debug("Loaded configuration", "environment", cfg.Environment, "network", cfg.Network, "datadir", cfg.DataDir)
	return cfg, nil
}

// configFileOverride loads the --config file, if one is given, over cfg.
// Entries missing from the file keep their current value.
func configFileOverride(cfg *ethpmConfig, ctx *cli.Context) error {
	if !ctx.IsSet(configFileFlag.Name) {
		return nil
	}
	file := ctx.String(configFileFlag.Name)
	if file == "" {
		return errors.New("config file flag provided with invalid file path")
	}
	return loadConfig(file, cfg)
}

func loadConfig(file string, cfg *ethpmConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(f).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// envVarsOverride applies the ETHPM_* environment variables. Empty values
// are ignored.
func envVarsOverride(cfg *ethpmConfig, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	strs := map[string]*string{
		envEnvironment:  &cfg.Environment,
		envNetwork:      &cfg.Network,
		envRPCURL:       &cfg.RPCURL,
		envExplorerURL:  &cfg.ExplorerURL,
		envExplorerKey:  &cfg.ExplorerKey,
		envSwarmGateway: &cfg.SwarmGateway,
		envOrigin:       &cfg.Origin,
		envHTTPHost:     &cfg.HTTPHost,
	}
	for name, field := range strs {
		if v, ok := get(name); ok {
			*field = v
		}
	}
	if v, ok := get(envDataDir); ok {
		cfg.DataDir = flags.ExpandPath(v)
	}
	ints := map[string]*int{
		envExplorerRateLimit: &cfg.ExplorerRateLimit,
		envCacheLimit:        &cfg.CacheLimit,
		envHTTPPort:          &cfg.HTTPPort,
		envInboxWorkers:      &cfg.InboxWorkers,
	}
	for name, field := range ints {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid environment variable %s: %v", name, err)
			}
			*field = n
		}
	}
	if v, ok := get(envTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid environment variable %s: %v", envTimeout, err)
		}
		cfg.Timeout = d
	}
	if v, ok := get(envCORSOrigins); ok {
		cfg.CORSOrigins = splitAndTrim(v)
	}
	return nil
}

// cmdLineOverride applies the flags given on the command line.
func cmdLineOverride(cfg *ethpmConfig, ctx *cli.Context) {
	strs := map[*cli.StringFlag]*string{
		environmentFlag:  &cfg.Environment,
		networkFlag:      &cfg.Network,
		rpcURLFlag:       &cfg.RPCURL,
		explorerURLFlag:  &cfg.ExplorerURL,
		explorerKeyFlag:  &cfg.ExplorerKey,
		swarmGatewayFlag: &cfg.SwarmGateway,
		originFlag:       &cfg.Origin,
		httpHostFlag:     &cfg.HTTPHost,
	}
	for f, field := range strs {
		if ctx.IsSet(f.Name) {
			*field = ctx.String(f.Name)
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = flags.ExpandPath(ctx.String(dataDirFlag.Name))
	}
	if ctx.IsSet(explorerRateLimitFlag.Name) {
		cfg.ExplorerRateLimit = ctx.Int(explorerRateLimitFlag.Name)
	}
	if ctx.IsSet(timeoutFlag.Name) {
		cfg.Timeout = ctx.Duration(timeoutFlag.Name)
	}
	if ctx.IsSet(cacheLimitFlag.Name) {
		cfg.CacheLimit = ctx.Int(cacheLimitFlag.Name)
	}
	if ctx.IsSet(inboxWorkersFlag.Name) {
		cfg.InboxWorkers = ctx.Int(inboxWorkersFlag.Name)
	}
	if ctx.IsSet(httpPortFlag.Name) {
		cfg.HTTPPort = ctx.Int(httpPortFlag.Name)
	}
	if ctx.IsSet(corsOriginsFlag.Name) {
		cfg.CORSOrigins = splitAndTrim(ctx.String(corsOriginsFlag.Name))
	}
}

// fillDefaults derives every endpoint left empty from the environment and
// the network.
func (cfg *ethpmConfig) fillDefaults() error {
	if cfg.Environment == "" && cfg.Origin != "" {
		// Links served from the production host imply the production network.
		if u, err := url.Parse(cfg.Origin); err == nil {
			cfg.Environment = string(params.EnvironmentForHost(u.Hostname()))
		}
	}
	env, err := params.ParseEnvironment(cfg.Environment)
	if err != nil {
		return err
	}
	cfg.Environment = string(env)
	if cfg.Network == "" {
		cfg.Network = env.Network()
	}
	network, err := params.LookupNetwork(cfg.Network)
	if err != nil {
		return err
	}
	cfg.Network = network.Name
	if cfg.RPCURL == "" {
		cfg.RPCURL = network.RPCURL
	}
	if cfg.ExplorerURL == "" {
		cfg.ExplorerURL = network.ExplorerURL
	}
	if cfg.Origin == "" {
		cfg.Origin = env.Origin()
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.Origin}
	}
	return nil
}

// validateConfig checks the assembled configuration.
func validateConfig(cfg *ethpmConfig) error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("no RPC endpoint known for network %s, set one with --%s", cfg.Network, rpcURLFlag.Name)
	}
	for name, endpoint := range map[string]string{
		"RPC endpoint":   cfg.RPCURL,
		"explorer API":   cfg.ExplorerURL,
		"swarm gateway":  cfg.SwarmGateway,
		"message origin": cfg.Origin,
	} {
		if err := validateURL(endpoint); err != nil {
			return fmt.Errorf("invalid %s %q: %v", name, endpoint, err)
		}
	}
	if cfg.DataDir == "" {
		return errors.New("no data directory, set one with --" + dataDirFlag.Name)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %v", cfg.Timeout)
	}
	if cfg.ExplorerRateLimit <= 0 {
		return fmt.Errorf("invalid explorer rate limit %d", cfg.ExplorerRateLimit)
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port %d", cfg.HTTPPort)
	}
	return nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("missing scheme or host")
	}
	return nil
}

// statePath is the location of the state database.
func (cfg *ethpmConfig) statePath() string {
	return filepath.Join(cfg.DataDir, "state")
}

func splitAndTrim(input string) (ret []string) {
	for _, r := range strings.Split(input, ",") {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// dumpConfig is the dumpconfig command.
// writes the effective config to STDOUT
func dumpConfig(ctx *cli.Context) error {
	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
	}
	return writeConfig(ctx.App.Writer, cfg)
}

func writeConfig(w io.Writer, cfg *ethpmConfig) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
