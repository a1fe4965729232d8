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

	"github.com/badu/mpconform/engine"
)

var (
	runSuiteDir  string
	runCategory  string
	runLenient   bool
	runJSON      bool
	runParallel  int
	runServerURL string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the reference parser (or an HTTP-driven third-party parser) against a test suite",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runSuiteDir, "suite-dir", "d", ".", "path to test suite root")
	runCmd.Flags().StringVarP(&runCategory, "category", "c", "", "run only this category")
	runCmd.Flags().BoolVar(&runLenient, "lenient", false, "use lenient parsing (accept LF instead of CRLF)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output results as JSON")
	runCmd.Flags().IntVar(&runParallel, "parallel", 1, "number of cases to run concurrently")
	runCmd.Flags().StringVar(&runServerURL, "server", "", "base URL of a third-party /parse server to drive instead of the built-in parser")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	dirs, err := engine.DiscoverCases(runSuiteDir, runCategory)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return errors.New("no tests found")
	}

	opts := engine.Options{Strict: !runLenient, Parallel: runParallel}

	var report engine.Report
	if runServerURL != "" {
		driver := engine.NewHTTPDriver(runServerURL)
		if err := driver.WaitHealthy(0); err != nil {
			return fmt.Errorf("server did not become healthy: %w", err)
		}
		report = driver.Run(dirs, opts)
	} else {
		report = engine.Run(dirs, opts)
	}

	if runJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, r := range report.Results {
			switch {
			case r.Skipped:
				fmt.Fprintf(cmd.OutOrStdout(), "SKIP: %s (%s)\n", r.TestID, r.SkipReason)
			case r.Passed:
				fmt.Fprintf(cmd.OutOrStdout(), "PASS: %s\n", r.TestID)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL: %s\n", r.TestID)
				for _, e := range r.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", e)
				}
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d, Passed: %d, Failed: %d", report.Total, report.Passed, report.Failed)
		if report.Skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", Skipped: %d", report.Skipped)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d test(s) failed", report.Failed)
	}
	return nil
}
