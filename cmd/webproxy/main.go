package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	humanize "github.com/dustin/go-humanize"
	"github.com/icecave/webproxy/cache"
	"github.com/icecave/webproxy/cmd"
	"github.com/icecave/webproxy/frontend"
	"github.com/icecave/webproxy/proxy"
	"github.com/icecave/webproxy/proxyprotocol"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <port>\n", os.Args[0])
		os.Exit(1)
	}

	config := cmd.GetConfigFromEnvironment()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if err := config.Validate(); err != nil {
		logger.Fatalln(err)
	}

	forwarder := &proxy.Forwarder{}

	if config.CacheEnabled {
		store, err := cache.New(config.CacheSize, config.ObjectSize)
		if err != nil {
			logger.Fatalln(err)
		}
		defer destroyCache(store, logger)

		forwarder.Cache = store
		logger.Printf(
			"Caching responses of up to %s in %s of memory",
			humanize.IBytes(uint64(config.ObjectSize)),
			humanize.IBytes(uint64(config.CacheSize)),
		)
	}

	server := &frontend.Server{
		Forwarder:  forwarder,
		Logger:     logger,
		Sequential: !config.Concurrent,
	}

	listener, err := net.Listen("tcp", ":"+os.Args[1])
	if err != nil {
		logger.Fatalln(err)
	}

	if config.ProxyProtocol {
		listener = proxyprotocol.NewListener(listener)
	}

	closed := make(chan error, 1)
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

		s := <-signals
		logger.Printf("Received %s, waiting for in-flight connections", s)
		closed <- server.Close()
	}()

	if err := server.Serve(listener); err != nil {
		logger.Fatalln(err)
	}

	if err := <-closed; err != nil {
		logger.Println(err)
	}
}

func destroyCache(store *cache.Cache, logger *log.Logger) {
	stats := store.Stats()
	logger.Printf(
		"Cache: %s entries, %s used, %s hits, %s misses, %s evictions",
		humanize.Comma(int64(stats.Entries)),
		humanize.IBytes(uint64(stats.Size)),
		humanize.Comma(int64(stats.Hits)),
		humanize.Comma(int64(stats.Misses)),
		humanize.Comma(int64(stats.Evictions)),
	)

	store.Destroy()
}
