package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/five82/frame/internal/app"
	"github.com/five82/frame/internal/cli"
)

var version = "dev"

func main() {
	app.Version = version
	root := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
