package main

import "github.com/lloydmeta/timestamping/app/cmd"

func main() {
	cmd.Execute()
}

// @title Timestamping API
// @version 0.0.1
// @description Proof-of-existence timestamps agreed through an ordered transaction log

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @securityDefinitions.basic BasicAuth
// @BasePath /v1
