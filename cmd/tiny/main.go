package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/icecave/webproxy/origin"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <port>\n", os.Args[0])
		os.Exit(1)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	listener, err := net.Listen("tcp", ":"+os.Args[1])
	if err != nil {
		logger.Fatalln(err)
	}

	server := &origin.Server{
		Locator: origin.Locator{Root: "."},
		Logger:  logger,
	}

	logger.Fatalln(server.Serve(listener))
}
