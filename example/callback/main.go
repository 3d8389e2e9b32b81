package main

import (
	"context"
	"fmt"
	"log"

	"blesync"
	"blesync/internal/adapters/sysclock"
)

func main() {
	cfg, err := blesync.LoadConfig("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := sysclock.New()
	delivery := blesync.NewCallbackDelivery(clock, func(dev blesync.DeviceId, r blesync.EventRange) error {
		fmt.Printf("device=%s range=%s\n", dev, r)
		return nil
	})

	rt, err := blesync.NewRuntime(cfg, blesync.WithDelivery(delivery), blesync.WithClock(clock))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	if err := rt.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
