package main

import (
	"github.com/zer0grav1tas/tenantctl/cmd"
)

func main() {
	cmd.Execute()
}
