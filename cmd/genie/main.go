package main

import (
	"context"
	"flag"

	"github.com/dkovalev/nutrigenie/internal/client/cli"
)

func main() {

	addr := flag.String("a", "http://localhost:8080", "server address")
	flag.Parse()

	app := cli.NewApp(*addr)
	app.Root(context.Background())

}
