// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
This file bridges the build system and the pattern loader: it uses Go's
embed package to bake each format's .dog source directly into the
compiled binary, so the shipped format library travels with the
executable and needs no filesystem access to load.
*/

package formats

import (
	_ "embed"
)

//go:embed csaf.dog
var CSAF []byte

//go:embed spdx.dog
var SPDX []byte

//go:embed slsa.dog
var SLSA []byte

//go:embed cyclonedx.dog
var CycloneDX []byte

//go:embed openvex.dog
var OpenVEX []byte

//go:embed jsf.dog
var JSF []byte

//go:embed swid.dog
var SWID []byte

//go:embed maven.dog
var Maven []byte

//go:embed osv.dog
var OSV []byte

//go:embed kafka.dog
var Kafka []byte

//go:embed guac.dog
var GUAC []byte

//go:embed rhsa.dog
var RHSA []byte

// Bundle names one embedded format source and the package path its
// declarations are registered under.
type Bundle struct {
	Package string
	Source  string
	Text    []byte
}

// All lists every embedded format bundle, in the order they are
// registered into a fresh Builder by internal/world's default-library
// wiring.
func All() []Bundle {
	return []Bundle{
		{Package: "csaf", Source: "formats/csaf.dog", Text: CSAF},
		{Package: "spdx", Source: "formats/spdx.dog", Text: SPDX},
		{Package: "slsa", Source: "formats/slsa.dog", Text: SLSA},
		{Package: "cyclonedx", Source: "formats/cyclonedx.dog", Text: CycloneDX},
		{Package: "openvex", Source: "formats/openvex.dog", Text: OpenVEX},
		{Package: "jsf", Source: "formats/jsf.dog", Text: JSF},
		{Package: "swid", Source: "formats/swid.dog", Text: SWID},
		{Package: "maven", Source: "formats/maven.dog", Text: Maven},
		{Package: "osv", Source: "formats/osv.dog", Text: OSV},
		{Package: "kafka", Source: "formats/kafka.dog", Text: Kafka},
		{Package: "guac", Source: "formats/guac.dog", Text: GUAC},
		{Package: "rhsa", Source: "formats/rhsa.dog", Text: RHSA},
	}
}
