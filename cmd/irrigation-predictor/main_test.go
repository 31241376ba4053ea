package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestListenFailureStopsProcess(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer busy.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	go listen(app, busy.Addr().String(), stop)

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		app.Shutdown()
		t.Fatal("listen on a busy port did not trigger shutdown")
	}
}
