// radctl decodes RADIUS attribute streams offline using a YAML
// dictionary, without needing a running raddecoded instance.
package main

import "github.com/go-radius/raddecode/cmd/radctl/commands"

func main() {
	commands.Execute()
}
