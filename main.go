package main

import (
	"os"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/cmd"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.UserError("%v", err)
		if hint := errors.GetHint(err); hint != "" {
			logging.UserInfo("%s", hint)
		}
		os.Exit(errors.GetExitCode(err))
	}
}
