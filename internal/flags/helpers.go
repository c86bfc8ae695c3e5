// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package flags

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ethereumpm/ethpm/params"
	"github.com/urfave/cli/v2"
)

// Flag categories shown in the help output.
const (
	NetworkCategory = "NETWORK"
	StorageCategory = "STORAGE"
	APICategory     = "API AND SERVER"
	LoggingCategory = "LOGGING"
	MiscCategory    = "MISC"
)

// NewApp creates an app with sane defaults.
func NewApp(gitCommit, gitDate, usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Name = filepath.Base(os.Args[0])
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	app.Copyright = "Copyright 2026 The go-ethereum Authors"
	return app
}

// Merge merges the given flag slices.
func Merge(groups ...[]cli.Flag) []cli.Flag {
	var ret []cli.Flag
	for _, group := range groups {
		ret = append(ret, group...)
	}
	return ret
}

// MigrateGlobalFlags makes all global flag values available in the
// context. This should be called as early as possible in app.Before.
//
// Example:
//
//	ethpm --verbosity 5 send   # global flag
//	ethpm send --verbosity 5   # command flag
//
// Both forms are accepted, the command flag wins.
func MigrateGlobalFlags(ctx *cli.Context) {
	var iterate func(cs []*cli.Command, fn func(*cli.Command))
	iterate = func(cs []*cli.Command, fn func(*cli.Command)) {
		for _, cmd := range cs {
			fn(cmd)
			iterate(cmd.Subcommands, fn)
		}
	}

	// This iterates over all commands and wraps their action function.
	iterate(ctx.App.Commands, func(cmd *cli.Command) {
		if cmd.Action == nil {
			return
		}
		action := cmd.Action
		cmd.Action = func(ctx *cli.Context) error {
			doMigrateFlags(ctx)
			return action(ctx)
		}
	})
}

func doMigrateFlags(ctx *cli.Context) {
	// Figure out if there are any aliases of commands. If there are, we want
	// to ignore them when iterating over the flags.
	aliases := make(map[string]bool)
	for _, fl := range ctx.Command.Flags {
		for _, alias := range fl.Names()[1:] {
			aliases[alias] = true
		}
	}
	for _, name := range ctx.FlagNames() {
		for _, parent := range ctx.Lineage()[1:] {
			if parent.IsSet(name) {
				if _, isAlias := aliases[name]; isAlias {
					continue
				}
				if !ctx.IsSet(name) {
					ctx.Set(name, parent.String(name))
				}
				break
			}
		}
	}
}

// SortedFlags returns the flags ordered by category, then name.
func SortedFlags(fl []cli.Flag) []cli.Flag {
	out := append([]cli.Flag(nil), fl...)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := category(out[i]), category(out[j])
		if ci != cj {
			return ci < cj
		}
		return out[i].Names()[0] < out[j].Names()[0]
	})
	return out
}

func category(f cli.Flag) string {
	if cf, ok := f.(cli.CategorizableFlag); ok && cf.GetCategory() != "" {
		return cf.GetCategory()
	}
	return MiscCategory
}
