package main

import "github.com/alexferrari88/mlnews/cmd"

func main() {
	cmd.Execute()
}
