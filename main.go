/*
	Copyright 2024 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/minisector-dominance/cmd"

func main() {
	cmd.Execute()
}
