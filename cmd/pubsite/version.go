package main

import "fmt"

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("pubsite %s\n", version)
	return nil
}
