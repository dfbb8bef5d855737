package main

import "github.com/chrisdamba/ordersim/cmd"

func main() {
	cmd.Execute()
}
