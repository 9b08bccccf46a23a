// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderStream(t *testing.T) {
	var buf bytes.Buffer
	for _, m := range []Message{NewKeepaliveMessage(), NewCloseMessage(CloseReasonNoExplanation)} {
		b, err := m.Serialize()
		require.NoError(t, err)
		buf.Write(b)
	}

	rd := NewReader(&buf, nil)
	m, errs, err := rd.ReadMessage()
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, MessageTypeKeepalive, m.MessageType())

	m, _, err = rd.ReadMessage()
	require.NoError(t, err)
	require.IsType(t, &CloseMessage{}, m)
	assert.Equal(t, CloseReasonNoExplanation, m.(*CloseMessage).Close.Reason)

	_, _, err = rd.ReadMessage()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{
			name:    "Truncated header",
			input:   []byte{0x20, 0x02},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "Truncated body",
			input:   []byte{0x20, 0x07, 0x00, 0x0c, 0x0f, 0x12},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "Header without body",
			input:   []byte{0x20, 0x07, 0x00, 0x0c},
			wantErr: io.ErrUnexpectedEOF,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.input), nil).ReadFrame()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReaderBadVersion(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0x40, 0x02, 0x00, 0x04}), nil).ReadFrame()
	var de *DeserializeError
	assert.ErrorAs(t, err, &de)
}

func TestReaderFrame(t *testing.T) {
	data := []byte{0x20, 0x02, 0x00, 0x04, 0x20, 0x02, 0x00, 0x04}
	rd := NewReader(bytes.NewReader(data), DefaultRegistry())
	for range 2 {
		frame, err := rd.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, data[:4], frame)
	}
}
