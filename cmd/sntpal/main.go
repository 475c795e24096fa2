package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AndrewLester/sntpal/internal/config"
	"github.com/AndrewLester/sntpal/internal/transport"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"github.com/sevlyar/go-daemon"
	"github.com/sirupsen/logrus"
)

const defaultSocket = "/var/run/sntpald.sock"

func main() {
	var configPath string
	var server string
	var query string
	var socket string
	var timeout int
	var interval float64
	var verbose bool
	var noDaemon bool
	var showUI bool
	var options queryOptions
	flag.StringVar(&configPath, "config", config.DefaultPath, "Path to the SNTP config file.")
	flag.StringVar(&server, "server", "", "Server to synchronize with. Overrides the config file.")
	flag.StringVar(&query, "query", "", "Address to query.")
	flag.StringVar(&query, "q", query, "Address to query.")
	flag.StringVar(&socket, "socket", "", "Path to the daemon's RPC socket.")
	flag.IntVar(&timeout, "timeout", 0, "Receive timeout in seconds.")
	flag.Float64Var(&interval, "interval", 0, "Maximum seconds between synchronizations.")
	flag.BoolVar(&verbose, "verbose", false, "Print packets and exchange details.")
	flag.BoolVar(&noDaemon, "no-daemon", false, "Don't run sntpal as a daemon.")
	flag.BoolVar(&showUI, "ui", false, "Show the status of the running daemon.")
	flag.IntVar(&options.samples, "samples", 5, "Exchanges per query. The lowest delay wins.")
	flag.BoolVar(&options.step, "step", false, "Step the system clock by the queried offset.")
	flag.BoolVar(&options.slew, "slew", false, "Hand the queried offset to the kernel clock adjustment.")
	flag.BoolVar(&options.compare, "compare", false, "Cross-check the queried offset with a second SNTP client.")
	flag.BoolVar(&options.plain, "no-tui", false, "Print plain output instead of the terminal UI.")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	if server != "" {
		cfg.Server = server
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	if interval > 0 {
		cfg.MaxInterval = interval
	}
	if verbose {
		cfg.Verbose = true
	}
	setupLogging(cfg.Verbose)

	if socket == "" {
		socket = os.Getenv("SNTP_SOCKET")
	}
	if socket == "" {
		socket = cfg.Socket
	}
	if socket == "" {
		socket = defaultSocket
	}

	if showUI {
		handleStatusUI(socket)
		return
	}

	if query != "" {
		cfg.Server = query
		// Packet dumps would scribble over the progress bar.
		options.plain = options.plain || cfg.Verbose
		handleQueryCommand(newClient(cfg), options)
		return
	}

	if cfg.Server == "" {
		logrus.Fatalf("No server configured. Use -server or a server line in %s.", configPath)
	}
	client := newClient(cfg)

	if !noDaemon {
		d, err := daemonCtx.Reborn()
		if err != nil {
			if errors.Is(err, daemon.ErrWouldBlock) {
				if err := killDaemon(); err != nil {
					logrus.Fatal(err)
				}
				fmt.Println("Successfully stopped sntpal daemon.")
				return
			}
			logrus.Fatal("Unable to run: ", err)
		}
		if d != nil {
			fmt.Printf("Daemon process (%s, %d) started successfully.\n", daemonName, d.Pid)
			return
		}
		defer daemonCtx.Release()

		logrus.Info("- - - - - - - - - - - - - - -")
		logrus.Info("daemon started ", os.Args)
	}

	runDaemon(client, cfg.MaxInterval, socket)
}

func newClient(cfg config.Config) *sntp.Client {
	client := sntp.NewClient(sntp.WithTransport(&transport.UDP{TTL: cfg.TTL, TOS: cfg.TOS}))
	client.SetServer(cfg.Server)
	client.SetTimeout(cfg.Timeout)
	client.SetVerbose(cfg.Verbose)
	return client
}
