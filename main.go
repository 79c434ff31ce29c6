package main

import "github.com/ValentinKolb/csav/cmd"

func main() {
	cmd.Execute()
}
