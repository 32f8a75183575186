package main

import (
	"os"

	"github.com/gobuffalo/buffalo/servers"

	"github.com/silinternational/assetcover-api/actions"
	"github.com/silinternational/assetcover-api/listeners"
	"github.com/silinternational/assetcover-api/log"
)

// main is the starting point for your Buffalo application.
// You can feel free and add to this `main` method, change
// what it does, etc...
// All we ask is that, at some point, you make sure to
// call `app.Serve()`, unless you don't want to start your
// application that is. :)
func main() {
	listeners.RegisterListeners()

	app := actions.App()
	if err := app.Serve(servers.New()); err != nil {
		if err.Error() != "context canceled" {
			log.Fatalf("failed to start application: %s", err)
		}
		os.Exit(0)
	}
}
