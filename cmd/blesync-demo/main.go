package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blesync"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "devices":
		err = devicesCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("blesync-demo %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to engine configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := blesync.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return flow.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := blesync.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func devicesCommand(args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to engine configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := blesync.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}

	for _, dev := range cfg.Devices {
		fmt.Println(dev)
	}
	return nil
}

func printUsage() {
	fmt.Printf(`blesync-demo CLI

Usage:
  blesync-demo <command> [flags]

Commands:
  run        Start the sync engine using the provided config
  validate   Load and validate a config file without starting the engine
  devices    List the devices configured to sync

Examples:
  blesync-demo run -config ./data/config.yaml
  blesync-demo validate -config ./data/config.yaml
  blesync-demo devices -config ./data/config.yaml
`)
}
