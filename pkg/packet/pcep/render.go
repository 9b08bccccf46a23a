// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var renderEncoderConfig = zapcore.EncoderConfig{
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
}

// MarshalMap renders v with the same fields it is logged with.
func MarshalMap(v zapcore.ObjectMarshaler) (map[string]any, error) {
	enc := zapcore.NewJSONEncoder(renderEncoderConfig)
	buf, err := enc.EncodeEntry(zapcore.Entry{}, []zapcore.Field{zap.Inline(v)})
	if err != nil {
		return nil, fmt.Errorf("failed to render %T: %w", v, err)
	}
	defer buf.Free()

	out := map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("failed to render %T: %w", v, err)
	}
	return out, nil
}

// Describe renders a ParseMessage result. The "message" key is present
// when a message was built and "errors" lists the PCErr answers, each with
// its serialized form in hex.
func Describe(m Message, errs []*ErrorMessage) (map[string]any, error) {
	out := map[string]any{}
	if !isNilMessage(m) {
		mm, err := MarshalMap(m)
		if err != nil {
			return nil, err
		}
		out["message"] = mm
	}
	if len(errs) > 0 {
		list := make([]any, 0, len(errs))
		for _, e := range errs {
			em, err := MarshalMap(e)
			if err != nil {
				return nil, err
			}
			wire, err := e.Serialize()
			if err != nil {
				return nil, err
			}
			em["wire"] = fmt.Sprintf("%x", wire)
			list = append(list, em)
		}
		out["errors"] = list
	}
	return out, nil
}
