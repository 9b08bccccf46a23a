// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

// Package version identifies the pcepcodec release the binaries belong to.
package version

import "fmt"

const (
	Name   = "pcepcodec"
	Module = "github.com/nttcom/pcepcodec"

	MAJOR uint = 0
	MINOR uint = 1
	PATCH uint = 0
)

func Version() string {
	return fmt.Sprintf("%d.%d.%d", MAJOR, MINOR, PATCH)
}

// String returns the project name and release, e.g. "pcepcodec 0.1.0".
func String() string {
	return Name + " " + Version()
}

// Program returns the banner printed by a binary of this project.
func Program(binary string) string {
	return fmt.Sprintf("%s (%s, %s)", binary, String(), Module)
}
