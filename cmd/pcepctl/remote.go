// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"encoding/hex"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"

	pb "github.com/nttcom/pcepcodec/api/codec/v1"
	pcepgrpc "github.com/nttcom/pcepcodec/cmd/pcepctl/grpc"
)

var client pb.CodecServiceClient

func newRemoteCmd() *cobra.Command {
	remoteCmd := &cobra.Command{
		Use:               "remote",
		Short:             "Use the codec service of a running pcepd",
		PersistentPreRunE: persistentPreRunE,
	}
	remoteCmd.PersistentFlags().String("host", "127.0.0.1", "pcepd connection address")
	remoteCmd.PersistentFlags().StringP("port", "p", "50052", "pcepd connection port")

	remoteCmd.AddCommand(newRemoteDecodeCmd(), newRemoteEncodeCmd(), newRemoteTypesCmd())
	return remoteCmd
}

func persistentPreRunE(cmd *cobra.Command, args []string) error {
	conn, err := grpc.NewClient(
		net.JoinHostPort(cmd.Flag("host").Value.String(), cmd.Flag("port").Value.String()),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("failed to dial pcepd connection: %v", err)
	}

	client = pb.NewCodecServiceClient(conn)
	return nil
}

func newRemoteDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode one framed message with pcepd",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := parseHex(args)
			if err != nil {
				return err
			}
			ret, err := pcepgrpc.Decode(client, frame)
			if err != nil {
				return err
			}
			if jsonFmt {
				out, err := protojson.MarshalOptions{Multiline: true}.Marshal(ret)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			return printResult(cmd.OutOrStdout(), ret.AsMap())
		},
	}
}

func newRemoteEncodeCmd() *cobra.Command {
	var fields map[string]string
	encodeCmd := &cobra.Command{
		Use:     "encode <messageType>",
		Short:   "Encode a Keepalive, Open, Close, PCNtf or PCErr with pcepd",
		Example: "  pcepctl remote encode Close --field reason=2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := map[string]any{"messageType": args[0]}
			for k, v := range fields {
				var n float64
				if _, err := fmt.Sscan(v, &n); err != nil {
					return fmt.Errorf("field %s: %q is not a number", k, v)
				}
				input[k] = n
			}
			wire, err := pcepgrpc.Encode(client, input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(wire))
			return err
		},
	}
	encodeCmd.Flags().StringToStringVar(&fields, "field", nil, "numeric message field, e.g. reason=2")
	return encodeCmd
}

func newRemoteTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the message types pcepd understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := pcepgrpc.ListMessageTypes(client)
			if err != nil {
				return err
			}
			if jsonFmt {
				return printResult(cmd.OutOrStdout(), types)
			}
			for _, t := range types {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", t.Type, t.Name)
			}
			return nil
		},
	}
}
