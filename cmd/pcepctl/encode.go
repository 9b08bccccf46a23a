// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/nttcom/pcepcodec/internal/pkg/segment"
	"github.com/nttcom/pcepcodec/pkg/packet/pcep"
)

func newEncodeCmd() *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the wire encoding of a PCEP message in hex",
	}
	encodeCmd.AddCommand(
		newEncodeKeepaliveCmd(),
		newEncodeOpenCmd(),
		newEncodeCloseCmd(),
		newEncodeSREROCmd(),
		newEncodeInitiateCmd(),
	)
	return encodeCmd
}

func printHex(w io.Writer, m pcep.Message) error {
	wire, err := m.Serialize()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hex.EncodeToString(wire))
	return err
}

func newEncodeKeepaliveCmd() *cobra.Command {
	return &cobra.Command{
		Use:  "keepalive",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printHex(cmd.OutOrStdout(), pcep.NewKeepaliveMessage())
		},
	}
}

func newEncodeOpenCmd() *cobra.Command {
	var sessionID, keepalive, deadTimer uint8
	var stateful, srv6 bool
	openCmd := &cobra.Command{
		Use:  "open",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var caps []pcep.CapabilityInterface
			if stateful {
				caps = pcep.DefaultCapabilities(pcep.CapabilityOptions{Instantiation: true, SRv6: srv6})
			}
			m := pcep.NewOpenMessage(sessionID, keepalive, caps)
			if cmd.Flags().Changed("deadtimer") {
				m.Open.Deadtime = deadTimer
			}
			return printHex(cmd.OutOrStdout(), m)
		},
	}
	openCmd.Flags().Uint8Var(&sessionID, "session-id", 0, "PCEP session ID")
	openCmd.Flags().Uint8Var(&keepalive, "keepalive", 30, "keepalive timer in seconds")
	openCmd.Flags().Uint8Var(&deadTimer, "deadtimer", 120, "dead timer in seconds (default 4 times keepalive)")
	openCmd.Flags().BoolVar(&stateful, "stateful", false, "advertise the stateful SR capabilities")
	openCmd.Flags().BoolVar(&srv6, "srv6", false, "add the SRv6 path setup type to --stateful")
	return openCmd
}

func newEncodeCloseCmd() *cobra.Command {
	var reason uint8
	closeCmd := &cobra.Command{
		Use:  "close",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printHex(cmd.OutOrStdout(), pcep.NewCloseMessage(reason))
		},
	}
	closeCmd.Flags().Uint8Var(&reason, "reason", 1, "close reason, see https://www.iana.org/assignments/pcep/pcep.xhtml#close-object-reason-field")
	return closeCmd
}

// sr-ero prints a single ERO object, not a message.
func newEncodeSREROCmd() *cobra.Command {
	var sids []string
	srEroCmd := &cobra.Command{
		Use:   "sr-ero",
		Short: "Print an ERO object made of SR-ERO or SRv6-ERO sub-objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sids) == 0 {
				return errors.New("at least one --segment is required")
			}
			segs, err := segment.NewSegmentList(sids)
			if err != nil {
				return err
			}
			ero, err := pcep.NewEROObject(segs)
			if err != nil {
				return err
			}
			wire, err := pcep.SerializeObject(ero)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(wire))
			return err
		},
	}
	srEroCmd.Flags().StringArrayVarP(&sids, "segment", "s", nil, "SID: MPLS label, SRv6 SID or SRv6 SID/behavior")
	return srEroCmd
}

func newEncodeInitiateCmd() *cobra.Command {
	var (
		sids                 []string
		srpID, color, pref   uint32
		name, srcStr, dstStr string
	)
	initiateCmd := &cobra.Command{
		Use:   "initiate",
		Short: "Print a PCInitiate creating an SR Policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := netip.ParseAddr(srcStr)
			if err != nil {
				return fmt.Errorf("invalid --src: %w", err)
			}
			dst, err := netip.ParseAddr(dstStr)
			if err != nil {
				return fmt.Errorf("invalid --dst: %w", err)
			}
			segs, err := segment.NewSegmentList(sids)
			if err != nil {
				return err
			}
			m, err := pcep.NewInitiateMessage(srpID, name, segs, color, pref, src, dst)
			if err != nil {
				return err
			}
			return printHex(cmd.OutOrStdout(), m)
		},
	}
	initiateCmd.Flags().StringArrayVarP(&sids, "segment", "s", nil, "SID: MPLS label, SRv6 SID or SRv6 SID/behavior")
	initiateCmd.Flags().Uint32Var(&srpID, "srp-id", 1, "SRP-ID-number")
	initiateCmd.Flags().Uint32Var(&color, "color", 0, "SR Policy color")
	initiateCmd.Flags().Uint32Var(&pref, "preference", 100, "candidate path preference")
	initiateCmd.Flags().StringVar(&name, "name", "", "symbolic path name")
	initiateCmd.Flags().StringVar(&srcStr, "src", "", "head end address")
	initiateCmd.Flags().StringVar(&dstStr, "dst", "", "end point address")
	_ = initiateCmd.MarkFlagRequired("src")
	_ = initiateCmd.MarkFlagRequired("dst")
	return initiateCmd
}
