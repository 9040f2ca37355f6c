package main

import "github.com/Programie/ScreenshotManager/cmd"

func main() {
	cmd.Execute()
}
