// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalMap(t *testing.T) {
	got, err := MarshalMap(NewCloseMessage(2))
	require.NoError(t, err)

	want := map[string]any{
		"messageType": "Close",
		"objects": []any{
			map[string]any{
				"processingRule": true,
				"ignore":         false,
				"reason":         float64(2),
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MarshalMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name        string
		msg         Message
		errs        []*ErrorMessage
		wantMessage bool
		wantErrors  int
	}{
		{
			name:        "message only",
			msg:         NewKeepaliveMessage(),
			wantMessage: true,
		},
		{
			name:       "errors only",
			errs:       []*ErrorMessage{NewErrorMessageFromCode(PCEPErrRPMissing, nil)},
			wantErrors: 1,
		},
		{
			name:        "typed nil message",
			msg:         (*CloseMessage)(nil),
			errs:        []*ErrorMessage{NewErrorMessageFromCode(PCEPErrRPMissing, nil), NewErrorMessageFromCode(PCEPErrRPMissing, nil)},
			wantMessage: false,
			wantErrors:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Describe(tt.msg, tt.errs)
			require.NoError(t, err)

			_, ok := got["message"]
			assert.Equal(t, tt.wantMessage, ok)
			if tt.wantErrors == 0 {
				assert.NotContains(t, got, "errors")
				return
			}
			list, ok := got["errors"].([]any)
			require.True(t, ok)
			require.Len(t, list, tt.wantErrors)

			wire, err := tt.errs[0].Serialize()
			require.NoError(t, err)
			first := list[0].(map[string]any)
			assert.Equal(t, fmt.Sprintf("%x", wire), first["wire"])
			assert.Equal(t, "PCErr", first["messageType"])
		})
	}
}
