package main

import "github.com/jfmyers9/hush/cmd"

func main() {
	cmd.Execute()
}
