/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/epicsdata/aapb/cmd/aapb/cmd"

func main() {
	cmd.Execute()
}
