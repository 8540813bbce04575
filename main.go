package main

import "github.com/shaharia-lab/vscode-testkit/cmd"

func main() {
	cmd.Execute()
}
