package main

import "flag"

type cliArgs struct {
	config   string
	script   string
	logFile  string
	dark     bool
	watch    bool
	debugLog bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.config, "config", "", "Appearance file (.toml, .yaml or .yml)")
	flag.StringVar(&args.script, "script", "", "Lua script to run against the HUD on start")
	flag.BoolVar(&args.watch, "watch", true, "Reload the appearance file when it changes")
	flag.StringVar(&args.logFile, "log", "", "Write logs to this file")
	flag.BoolVar(&args.debugLog, "debug", false, "Log at debug level")
	flag.BoolVar(&args.dark, "dark", false, "Assume a dark terminal background instead of detecting it")

	flag.Parse()
	return args
}
