package main

import (
	"fmt"
	"os"

	"github.com/icecave/webproxy/cmd"
	"github.com/icecave/webproxy/health"
)

func main() {
	config := cmd.GetConfigFromEnvironment()

	var checker health.Checker = &health.ProxyChecker{
		Address:       config.CheckAddress,
		Timeout:       config.CheckTimeout,
		ProxyProtocol: config.ProxyProtocol,
	}

	status := checker.Check()
	fmt.Println(status)
	if !status.IsHealthy {
		os.Exit(1)
	}
}
