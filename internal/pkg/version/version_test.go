// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "Version", got: Version(), want: "0.1.0"},
		{name: "String", got: String(), want: "pcepcodec 0.1.0"},
		{name: "Daemon banner", got: Program("pcepd"), want: "pcepd (pcepcodec 0.1.0, github.com/nttcom/pcepcodec)"},
		{name: "CLI banner", got: Program("pcepctl"), want: "pcepctl (pcepcodec 0.1.0, github.com/nttcom/pcepcodec)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
