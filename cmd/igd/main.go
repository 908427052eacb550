package main

import "github.com/simplenow320/I-Get-It-Done-2-sub001/cmd/igd/root"

func main() {
	root.Execute()
}
