/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/badu/mpconform/validate"
)

var (
	validateJSON  bool
	validateQuiet bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [suite-dir]",
	Short: "check a test suite for structural and cross-file defects",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output results as JSON")
	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "only print output when there are errors")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	suiteDir := "."
	if len(args) == 1 {
		suiteDir = args[0]
	}

	result, err := validate.Validate(suiteDir)
	if err != nil {
		return err
	}

	if validateJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if !validateQuiet || !result.IsValid() {
		fmt.Fprint(cmd.OutOrStdout(), result.Summary())
	}

	if !result.IsValid() {
		return errors.New("suite failed validation")
	}
	return nil
}
