package main

import "github.com/techedushop/contactus/cmd"

func main() {
	cmd.Execute()
}
