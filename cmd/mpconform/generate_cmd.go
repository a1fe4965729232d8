/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/badu/mpconform/generate"
	"github.com/badu/mpconform/wire"
)

var (
	genBoundary         string
	genFields           []string
	genFiles            []string
	genRawParts         []string
	genLineEnding       string
	genNoTerminator     bool
	genPreamble         string
	genEpilogue         string
	genOutput           string
	genHeadersOutput    string
	genDump             bool
	genValidateBoundary bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "compose a raw multipart/form-data body from a declarative description",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genBoundary, "boundary", "b", "", "boundary string (random UUID-derived boundary if omitted)")
	generateCmd.Flags().StringArrayVar(&genFields, "field", nil, "add text field: name=X,value=Y[,content-type=Z]")
	generateCmd.Flags().StringArrayVar(&genFiles, "file", nil, "add file field: name=X,filename=Y,content=DATA[,content-type=Z][,filename*=STAR]")
	generateCmd.Flags().StringArrayVar(&genRawParts, "raw-part", nil, "add a raw part's bytes, base64 encoded")
	generateCmd.Flags().StringVar(&genLineEnding, "line-ending", "crlf", "line ending style: crlf or lf")
	generateCmd.Flags().BoolVar(&genNoTerminator, "no-terminator", false, "omit final boundary terminator (for malformed tests)")
	generateCmd.Flags().StringVar(&genPreamble, "preamble", "", "content before the first boundary")
	generateCmd.Flags().StringVar(&genEpilogue, "epilogue", "", "content after the final boundary")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file path (default: stdout)")
	generateCmd.Flags().StringVar(&genHeadersOutput, "headers-output", "", "also write a headers.json file")
	generateCmd.Flags().BoolVar(&genDump, "dump", false, "show a hex dump instead of writing binary")
	generateCmd.Flags().BoolVar(&genValidateBoundary, "validate-boundary", false, "validate the boundary per RFC 2046 before generating")
	rootCmd.AddCommand(generateCmd)
}

func parseKV(arg string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(arg, ",") {
		if eq := strings.IndexByte(pair, '='); eq != -1 {
			out[pair[:eq]] = pair[eq+1:]
		}
	}
	return out
}

func runGenerate(cmd *cobra.Command, args []string) error {
	boundary := genBoundary
	if boundary == "" {
		boundary = generate.NewBoundary()
	}
	if genValidateBoundary {
		if msg, ok := wire.ValidateBoundary(boundary); !ok {
			return fmt.Errorf("invalid boundary: %s", msg)
		}
	}

	lineEnding := generate.CRLF
	switch genLineEnding {
	case "crlf":
		lineEnding = generate.CRLF
	case "lf":
		lineEnding = generate.LF
	default:
		return fmt.Errorf("unknown line ending %q (want crlf or lf)", genLineEnding)
	}

	spec := generate.Spec{
		Boundary:               boundary,
		LineEnding:             lineEnding,
		IncludeFinalTerminator: !genNoTerminator,
		Preamble:               []byte(genPreamble),
		Epilogue:               []byte(genEpilogue),
	}

	for _, f := range genFields {
		kv := parseKV(f)
		part := generate.PartSpec{Name: kv["name"], Body: []byte(kv["value"])}
		if ct, ok := kv["content-type"]; ok {
			part.ContentType, part.HasContentType = ct, true
		}
		spec.Parts = append(spec.Parts, part)
	}

	for _, f := range genFiles {
		kv := parseKV(f)
		part := generate.PartSpec{
			Name:        kv["name"],
			Filename:    kv["filename"],
			HasFilename: true,
			Body:        []byte(kv["content"]),
		}
		if ct, ok := kv["content-type"]; ok {
			part.ContentType, part.HasContentType = ct, true
		}
		if star, ok := kv["filename*"]; ok {
			part.FilenameStar, part.HasFilenameStar = star, true
		}
		spec.Parts = append(spec.Parts, part)
	}

	for _, b64 := range genRawParts {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return fmt.Errorf("invalid --raw-part base64: %w", err)
		}
		spec.Parts = append(spec.Parts, generate.PartSpec{IsRaw: true, RawBytes: raw})
	}

	result := generate.Build(spec)

	switch {
	case genDump:
		fmt.Fprint(cmd.OutOrStdout(), hexDump(result))
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d bytes\n", len(result))
	case genOutput != "":
		if err := os.MkdirAll(filepath.Dir(genOutput), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(genOutput, result, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(result), genOutput)
	default:
		cmd.OutOrStdout().Write(result)
	}

	if genHeadersOutput != "" {
		headers := map[string]string{
			"content-type": "multipart/form-data; boundary=" + boundary,
		}
		if err := os.MkdirAll(filepath.Dir(genHeadersOutput), 0o755); err != nil {
			return err
		}
		data, err := json.MarshalIndent(headers, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(genHeadersOutput, append(data, '\n'), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote headers to %s\n", genHeadersOutput)
	}

	return nil
}

func hexDump(data []byte) string {
	const width = 16
	var b strings.Builder
	for i := 0; i < len(data); i += width {
		end := i + width
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]

		fmt.Fprintf(&b, "%08x  ", i)
		for j := 0; j < width; j++ {
			if j < len(chunk) {
				fmt.Fprintf(&b, "%02x ", chunk[j])
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString(" |")
		for _, c := range chunk {
			if c >= 32 && c < 127 {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}
