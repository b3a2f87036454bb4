// SPDX-License-Identifier: MPL-2.0

// Command strusmod inspects and loads strus extension modules.
package main

import (
	cmd "github.com/strus/strusmod/cmd/strusmod"

	"github.com/joho/godotenv"
)

func main() {
	// A project-local .env may provide STRUS_MODULE_PATH and STRUS_* overrides.
	_ = godotenv.Load()
	cmd.Execute()
}
