package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janpfeifer/GoMemory/internal/config"
	"github.com/janpfeifer/GoMemory/internal/server"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	if err := config.LoadDotEnv(); err != nil {
		klog.Fatalf("Invalid configuration: %v", err)
	}
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		klog.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.StaticDir != "" {
		if err := server.GenerateStatic(cfg.StaticDir); err != nil {
			klog.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := make(chan string, 1)
	go func() {
		addr := <-started
		fmt.Printf("GoMemory server listening on http://%s\n", addr)
	}()

	if err := server.Run(ctx, cfg, started); err != nil {
		klog.Fatal(err)
	}
}
