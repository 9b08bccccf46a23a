// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/nttcom/pcepcodec/internal/pkg/capture"
	"github.com/nttcom/pcepcodec/pkg/logger"
)

func newPcapCmd() *cobra.Command {
	var port uint16
	pcapCmd := &cobra.Command{
		Use:   "pcap <file>",
		Short: "Decode the PCEP messages of a pcap or pcapng capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			extractor := capture.NewExtractor(
				capture.WithPort(port),
				capture.WithLogger(logger.NewConsoleLogger(debug)),
			)
			streams, err := extractor.Streams(f)
			if err != nil {
				return err
			}

			registry := newRegistry()
			results := []map[string]any{}
			for _, st := range streams {
				messages, err := decodeStream(bytes.NewReader(st.Payload), registry)
				entry := map[string]any{
					"stream":   st.String(),
					"messages": messages,
				}
				if err != nil {
					// captures often end in the middle of a message
					entry["error"] = err.Error()
				}
				results = append(results, entry)
			}
			return printResult(cmd.OutOrStdout(), results)
		},
	}
	pcapCmd.Flags().Uint16Var(&port, "port", capture.PCEPPort, "PCEP TCP port")
	return pcapCmd
}
