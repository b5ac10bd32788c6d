package main

import "github.com/bookahead/backend/cmd"

func main() {
	cmd.Execute()
}
