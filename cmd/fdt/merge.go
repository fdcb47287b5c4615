// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"os"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"
)

func init() {
	var out string
	var replace bool

	cmd := cobra.Command{
		Use:   "merge BASE OVERLAY",
		Short: "Fold OVERLAY's nodes and properties into BASE",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the merged DTB to `file` instead of stdout")
	cmd.Flags().BoolVar(&replace, "replace", false, "let OVERLAY's properties replace BASE's like-named properties")

	subcommands = append(subcommands, subcommand{
		Command: cmd,
		RunE: func(ctx context.Context, cmd *cobra.Command, args []string) error {
			base, err := loadTree(args[0])
			if err != nil {
				return err
			}
			overlay, err := loadTree(args[1])
			if err != nil {
				return err
			}
			base.Merge(overlay, replace)

			blob, err := base.ToDTB()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(blob)
				return err
			}
			return os.WriteFile(out, blob, 0o644)
		},
	})
}
