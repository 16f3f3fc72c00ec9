// cmd/foldbench-score/main.go
package main

import (
	"foldbench/internal/appshell"
	"foldbench/internal/scoreapp"
)

func main() {
	appshell.Main(scoreapp.RunContext)
}
