// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"git.lukeshu.com/go/fdt"
)

func init() {
	var out string
	var tabsize int

	cmd := cobra.Command{
		Use:   "dtb2dts INPUT.dtb",
		Short: "Decompile a binary device tree blob into DTS source",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the DTS to `file` instead of stdout")
	cmd.Flags().IntVar(&tabsize, "tabsize", 4, "number of spaces per indentation level")

	subcommands = append(subcommands, subcommand{
		Command: cmd,
		RunE: func(ctx context.Context, cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			dlog.Debugf(ctx, "parsing %s (%d bytes)", args[0], len(blob))
			tree, err := fdt.ParseDTB(blob, 0)
			if err != nil {
				return err
			}
			text := tree.ToDTS(tabsize)
			if out == "" {
				_, err = os.Stdout.WriteString(text)
				return err
			}
			return os.WriteFile(out, []byte(text), 0o644)
		},
	})
}
