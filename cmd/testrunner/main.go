package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/openscroller/test"
)

func main() {
	serverAddr := flag.String("addr", "localhost:4000", "Level server telnet address")
	httpAddr := flag.String("http", "http://localhost:4443", "Level server HTTP base URL")
	filter := flag.String("run", "", "Only run tests whose names contain this text")
	list := flag.Bool("list", false, "List test names and exit")
	verbose := flag.Bool("v", false, "Verbose output - show detailed actions for each test")
	flag.Parse()

	if *list {
		for _, name := range test.GetTestNames() {
			fmt.Println(name)
		}
		return
	}

	// Set verbose mode
	test.Verbose = *verbose
	target := test.Target{Telnet: *serverAddr, HTTP: *httpAddr}

	fmt.Printf("Running integration tests against %s and %s\n", target.Telnet, target.HTTP)
	fmt.Println("Make sure the level server is running!")
	if *verbose {
		fmt.Println("Verbose mode enabled - showing detailed test actions")
	}
	fmt.Println()

	var results []test.TestResult
	if *filter != "" {
		results = test.RunFilteredTests(target, *filter)
	} else {
		results = test.RunAllTests(target)
	}
	test.PrintResults(results)

	// Exit with error code if any tests failed
	for _, result := range results {
		if !result.Passed {
			os.Exit(1)
		}
	}
}
