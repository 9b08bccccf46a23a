// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nttcom/pcepcodec/pkg/packet/pcep"
)

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode framed PCEP messages given in hex or read from a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString("file")
			if err != nil {
				return err
			}

			var r io.Reader
			switch {
			case file != "" && len(args) > 0:
				return errors.New("hex arguments and --file are exclusive")
			case file != "":
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			case len(args) > 0:
				data, err := parseHex(args)
				if err != nil {
					return err
				}
				r = bytes.NewReader(data)
			default:
				return errors.New("no message given")
			}

			results, err := decodeStream(r, newRegistry())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), results)
		},
	}

	decodeCmd.Flags().StringP("file", "f", "", "file holding raw PCEP messages back to back")
	return decodeCmd
}

// parseHex joins args into one byte string. Spaces, colons and a leading
// 0x are ignored.
func parseHex(args []string) ([]byte, error) {
	s := strings.Join(args, "")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// decodeStream decodes every message of r. A message the codec rejects is
// reported in place and decoding goes on with the next frame.
func decodeStream(r io.Reader, registry *pcep.Registry) ([]map[string]any, error) {
	reader := pcep.NewReader(r, registry)
	results := []map[string]any{}
	for {
		frame, err := reader.ReadFrame()
		if errors.Is(err, io.EOF) {
			return results, nil
		}
		if err != nil {
			return results, fmt.Errorf("message %d: %w", len(results)+1, err)
		}
		results = append(results, describeFrame(frame, registry))
	}
}

func describeFrame(frame []byte, registry *pcep.Registry) map[string]any {
	m, errs, err := registry.ParseMessage(frame)
	if err != nil {
		return map[string]any{"error": err.Error(), "wire": hex.EncodeToString(frame)}
	}
	desc, err := pcep.Describe(m, errs)
	if err != nil {
		return map[string]any{"error": err.Error(), "wire": hex.EncodeToString(frame)}
	}
	return desc
}
