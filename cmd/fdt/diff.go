// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"git.lukeshu.com/go/fdt"
)

func init() {
	cmd := cobra.Command{
		Use:   "diff A B",
		Short: "Structurally compare two device trees",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
	}

	subcommands = append(subcommands, subcommand{
		Command: cmd,
		RunE: func(ctx context.Context, cmd *cobra.Command, args []string) error {
			a, err := loadTree(args[0])
			if err != nil {
				return err
			}
			b, err := loadTree(args[1])
			if err != nil {
				return err
			}
			_, onlyA, onlyB := fdt.Diff(a, b)
			if onlyA.Empty() && onlyB.Empty() {
				fmt.Println("no differences")
				return nil
			}
			if !onlyA.Empty() {
				fmt.Printf("only in %s:\n%s", args[0], onlyA.ToDTS(4))
			}
			if !onlyB.Empty() {
				fmt.Printf("only in %s:\n%s", args[1], onlyB.ToDTS(4))
			}
			return nil
		},
	})
}
