// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"io"
)

// Reader splits a byte stream into framed PCEP messages.
type Reader struct {
	r        io.Reader
	registry *Registry
}

// NewReader returns a Reader decoding with registry, or with the default
// registry when registry is nil.
func NewReader(r io.Reader, registry *Registry) *Reader {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Reader{r: r, registry: registry}
}

// ReadFrame returns the next raw message, header included.
func (rd *Reader) ReadFrame() ([]uint8, error) {
	header := make([]uint8, CommonHeaderLength)
	if _, err := io.ReadFull(rd.r, header); err != nil {
		return nil, err
	}
	h, err := DecodeCommonHeader(header)
	if err != nil {
		return nil, err
	}
	frame := make([]uint8, h.MessageLength)
	copy(frame, header)
	if _, err := io.ReadFull(rd.r, frame[CommonHeaderLength:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return frame, nil
}

// ReadMessage reads and parses the next message. See Registry.ParseMessage
// for the meaning of the results.
func (rd *Reader) ReadMessage() (Message, []*ErrorMessage, error) {
	frame, err := rd.ReadFrame()
	if err != nil {
		return nil, nil, err
	}
	return rd.registry.ParseMessage(frame)
}
