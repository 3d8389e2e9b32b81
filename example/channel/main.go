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
	delivery, ranges, closeRanges := blesync.NewChannelDelivery(clock, 32)
	defer closeRanges()

	go fanoutWorker("ingest", ranges)

	rt, err := blesync.NewRuntime(cfg, blesync.WithDelivery(delivery), blesync.WithClock(clock))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	if err := rt.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func fanoutWorker(name string, ranges <-chan blesync.DeliveredRange) {
	for dr := range ranges {
		fmt.Printf("[%s] device=%s range=%s\n", name, dr.DeviceId, dr.Range)
		// TODO: forward to a downstream queue/API.
	}
}
