package main

import "github.com/Ansari839/ecommerce-dashboard/cmd"

func main() {
	cmd.Execute()
}
