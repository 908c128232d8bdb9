package main

import "audio-clip-extractor/cmd"

func main() {
	cmd.Execute()
}
