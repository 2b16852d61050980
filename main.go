package main

import "github.com/clems4ever/dialog-ngram/cmd"

func main() {
	cmd.Execute()
}
