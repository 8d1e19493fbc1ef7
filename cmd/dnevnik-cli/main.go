package main

import (
	"dnevnik-backend/cmd/dnevnik-cli/commands"
	"dnevnik-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
