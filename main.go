package main

import "github.com/securegate/admin-portal/cmd"

func main() {
	cmd.Execute()
}
