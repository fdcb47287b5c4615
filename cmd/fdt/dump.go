// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func init() {
	var format string

	cmd := cobra.Command{
		Use:   "dump INPUT",
		Short: "Print a summary of a device tree (DTB or DTS)",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
	}
	cmd.Flags().StringVar(&format, "format", "text", "one of: text, json, debug")

	subcommands = append(subcommands, subcommand{
		Command: cmd,
		RunE: func(ctx context.Context, cmd *cobra.Command, args []string) error {
			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			switch format {
			case "text":
				fmt.Print(tree.Info())
			case "json":
				return tree.EncodeJSON(os.Stdout)
			case "debug":
				spew.Dump(tree)
			default:
				return fmt.Errorf("fdt dump: unknown --format %q", format)
			}
			return nil
		},
	})
}
