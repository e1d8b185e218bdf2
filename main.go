// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/shaderpack/cmd/shaderpack"

func main() {
	cmd.Execute()
}
