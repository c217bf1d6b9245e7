package main

import "github.com/LucasSch1/IAction/cmd"

func main() {
	cmd.Execute()
}
