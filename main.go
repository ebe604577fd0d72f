// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/taskdeps/taskdeps/cmd/taskdeps"

func main() {
	cmd.Execute()
}
