// Copyright © 2024 The pystyle authors

package main

import "github.com/luthersystems/pystyle/cmd"

func main() {
	cmd.Execute()
}
