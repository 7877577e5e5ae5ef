package main

import "github.com/bilbywilby/IASIP-gifs/cmd"

func main() {
	cmd.Execute()
}
