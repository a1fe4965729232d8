/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Command mpconform is the reference CLI for the multipart/form-data
// conformance suite: it runs the reference parser against a corpus
// (`run`), checks the corpus for structural defects (`validate`), and
// materializes raw fixture files from a declarative description
// (`generate`).
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("mpconform failed")
		os.Exit(1)
	}
}
