package main

import "github.com/refcross/refcross/cmd"

func main() {
	cmd.Execute()
}
