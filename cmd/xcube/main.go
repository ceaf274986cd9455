// Command xcube generates XMage deck files from Magic Online cube lists.
package main

import "github.com/mesh-intelligence/xcube/internal/cli"

func main() {
	cli.Execute()
}
