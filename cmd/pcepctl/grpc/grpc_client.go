// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package grpc

import (
	"context"
	"time"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/nttcom/pcepcodec/api/codec/v1"
)

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

type MessageType struct {
	Type uint8
	Name string
}

func Decode(client pb.CodecServiceClient, frame []byte) (*structpb.Struct, error) {
	ctx, cancel := withTimeout()
	defer cancel()

	return client.Decode(ctx, wrapperspb.Bytes(frame))
}

func Encode(client pb.CodecServiceClient, fields map[string]any) ([]byte, error) {
	ctx, cancel := withTimeout()
	defer cancel()

	input, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	ret, err := client.Encode(ctx, input)
	if err != nil {
		return nil, err
	}
	return ret.GetValue(), nil
}

func ListMessageTypes(client pb.CodecServiceClient) ([]MessageType, error) {
	ctx, cancel := withTimeout()
	defer cancel()

	ret, err := client.ListMessageTypes(ctx, &empty.Empty{})
	if err != nil {
		return nil, err
	}

	var types []MessageType
	for _, v := range ret.GetFields()["messageTypes"].GetListValue().GetValues() {
		fields := v.GetStructValue().GetFields()
		types = append(types, MessageType{
			Type: uint8(fields["type"].GetNumberValue()),
			Name: fields["name"].GetStringValue(),
		})
	}
	return types, nil
}
