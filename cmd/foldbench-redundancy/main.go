// cmd/foldbench-redundancy/main.go
package main

import (
	"foldbench/internal/appshell"
	"foldbench/internal/redundancyapp"
)

func main() {
	appshell.Main(redundancyapp.RunContext)
}
