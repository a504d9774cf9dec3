package main

import "github.com/KaramelBytes/powerclean/cmd"

func main() {
	cmd.Execute()
}
