// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"github.com/spf13/cobra"

	"github.com/nttcom/pcepcodec/pkg/logger"
	"github.com/nttcom/pcepcodec/pkg/packet/pcep"
)

var (
	jsonFmt         bool
	debug           bool
	keepUnknownTLVs bool
	maxDepth        int
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pcepctl",
		Short:        "Decode and encode PCEP messages",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&jsonFmt, "json", "j", false, "output json format")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "log skipped TLVs and objects to stderr")
	rootCmd.PersistentFlags().BoolVar(&keepUnknownTLVs, "keep-unknown-tlvs", false, "keep TLVs the decoder does not know")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 4, "maximum nesting of explicit exclusion sub-objects")

	rootCmd.AddCommand(newDecodeCmd(), newEncodeCmd(), newPcapCmd(), newRemoteCmd())
	rootCmd.Run = runRootCmd

	return rootCmd
}

func runRootCmd(cmd *cobra.Command, args []string) {
	cmd.HelpFunc()(cmd, args)
}

// newRegistry builds the decoder selected by the persistent flags.
func newRegistry() *pcep.Registry {
	return pcep.NewRegistry(
		pcep.WithLogger(logger.NewConsoleLogger(debug)),
		pcep.WithKeepUnknownTLVs(keepUnknownTLVs),
		pcep.WithMaxSubobjectDepth(maxDepth),
	)
}
