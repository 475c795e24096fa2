package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/AndrewLester/sntpal/internal/rpc"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"github.com/sevlyar/go-daemon"
	"github.com/sirupsen/logrus"
)

const daemonName = "sntpald"

var daemonCtx = &daemon.Context{
	PidFileName: fmt.Sprintf("/var/run/%s.pid", daemonName),
	PidFilePerm: 0644,
	LogFileName: fmt.Sprintf("/var/log/%s.log", daemonName),
	LogFilePerm: 0640,
	WorkDir:     "./",
	Umask:       027,
	Args:        append([]string{daemonName}, os.Args[1:]...),
}

func killDaemon() error {
	process, err := daemonCtx.Search()
	if err != nil {
		return fmt.Errorf("error finding daemon: %w", err)
	}

	if err := syscall.Kill(process.Pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("couldn't stop sntpal daemon: %w", err)
	}
	return nil
}

// runDaemon keeps the client synchronized and serves its status until the
// process is told to stop.
func runDaemon(client *sntp.Client, maxInterval float64, socket string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	k := newKeeper(client, maxInterval, logrus.StandardLogger())
	server := &rpc.SNTPalRPCServer{Socket: socket, Status: k.Status}
	if err := server.Listen(); err != nil {
		logrus.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := server.Serve(); err != nil {
			logrus.WithError(err).Error("rpc server stopped")
		}
	}()
	go func() {
		defer wg.Done()
		k.Run(ctx, time.Second)
	}()

	<-ctx.Done()
	logrus.Info("shutting down")
	server.Close()
	wg.Wait()
	os.Remove(socket)
}
