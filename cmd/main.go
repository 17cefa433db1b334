package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	configinfra "neighbournode.dev/cli/internal/infrastructure/config"
	"neighbournode.dev/cli/internal/interfaces/cli"
)

func main() {
	config, err := configinfra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	container, err := cli.NewCLIContainer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		// First signal cancels in-flight work, a second one forces exit
		<-sigChan
		cancel()
		<-sigChan
		os.Exit(1)
	}()

	cli.Execute(ctx, container)
}
