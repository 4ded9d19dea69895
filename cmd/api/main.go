package main

import (
	"os"

	_ "backoffice/api/swagger" // swagger docs
	"backoffice/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title           Back Office API
// @version         1.0
// @description     Personnel, permission groups and the service catalog.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
