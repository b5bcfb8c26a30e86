package main

import "emberline/cmd/ember/root"

func main() {
	root.Execute()
}
