// Command bg770-bringup runs the bring-up sequence against the simulated
// BG770 executor and prints the outcome. It exists to exercise the full
// stack end to end; a real deployment supplies its own at.Executor over
// the serial channel.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at/atfake"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/audit"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/bringup"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/config"
)

func main() {
	configPath := flag.String("config", "", "optional YAML configuration file")
	legacy := flag.Bool("legacy", false, "use the unconditional-write sequence")
	flag.Parse()

	log.Printf("Starting BG770 bring-up")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded")

	auditLogger, err := audit.NewFileLogger(cfg.AuditDir)
	if err != nil {
		log.Fatalf("Failed to initialize audit logger: %v", err)
	}
	defer func() { _ = auditLogger.Close() }()

	desired, err := bringup.DefaultDesired(cfg)
	if err != nil {
		log.Fatalf("Invalid desired configuration: %v", err)
	}

	mctx := bringup.NewModuleContext()
	modem := atfake.NewBG770()

	// The simulated module asserts readiness shortly after power-on, the
	// way the channel layer would on seeing the ready URC.
	go func() {
		time.Sleep(100 * time.Millisecond)
		log.Printf("Channel layer: %s", at.ReadyURC)
		mctx.NotifyReady()
	}()

	ctx := context.Background()

	if *legacy {
		seq, err := bringup.NewLegacy(modem, mctx, desired, cfg, auditLogger)
		if err != nil {
			log.Fatalf("Failed to construct legacy sequence: %v", err)
		}
		if err := seq.Run(ctx); err != nil {
			log.Fatalf("Bring-up failed: %v", err)
		}
		log.Printf("Bring-up complete; %d commands issued", len(modem.Commands()))
		return
	}

	seq, err := bringup.New(modem, mctx, desired, cfg, auditLogger)
	if err != nil {
		log.Fatalf("Failed to construct bring-up sequence: %v", err)
	}

	if err := seq.Run(ctx); err != nil {
		log.Fatalf("Bring-up failed: %v", err)
	}

	seq.EnableUnsolicitedReports(ctx)

	log.Printf("Bring-up complete; fast path: %s; %d commands issued",
		seq.FastPath(), len(modem.Commands()))
}
