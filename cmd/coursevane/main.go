package main

import (
	"coursevane/cmd/coursevane/commands"
	"coursevane/lib/telemetry"
	"coursevane/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "coursevane")
	if err != nil {
		serviceutil.Fatal("failed to initialize telemetry", err)
	}
	defer tel.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}
