package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/cloudx-io/auctiond/server"
	"github.com/cloudx-io/auctiond/session"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <port>\n", os.Args[0])
		os.Exit(1)
	}

	port, err := strconv.Atoi(os.Args[1])
	if err != nil || port < 1 || port > 65535 {
		fmt.Fprintf(os.Stderr, "Invalid port %q\n", os.Args[1])
		os.Exit(1)
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.Port = port

	srv := server.New(session.New())
	log.Fatal(srv.ListenAndServe(cfg.Addr()))
}
