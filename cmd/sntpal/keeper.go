package main

import (
	"context"
	"sync"
	"time"

	"github.com/AndrewLester/sntpal/internal/rpc"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"github.com/sirupsen/logrus"
)

// keeper resynchronizes a client whenever its anchor is older than
// maxInterval seconds.
type keeper struct {
	lock        sync.Mutex
	client      *sntp.Client
	maxInterval float64
	lastErr     error
	logger      logrus.FieldLogger
}

func newKeeper(client *sntp.Client, maxInterval float64, logger logrus.FieldLogger) *keeper {
	return &keeper{client: client, maxInterval: maxInterval, logger: logger}
}

// tick syncs if the anchor is due. It reports false only when a sync was
// attempted and failed.
func (k *keeper) tick() bool {
	k.lock.Lock()
	defer k.lock.Unlock()

	if !k.client.NeedsResync(k.maxInterval) {
		return true
	}

	k.logger.Info("synchronizing with ", k.client.Server())
	if err := k.client.Sync(); err != nil {
		k.lastErr = err
		k.logger.WithError(err).Warn("sync failed")
		return false
	}
	k.lastErr = nil

	if result, ok := k.client.LastResult(); ok {
		k.logger.WithFields(logrus.Fields{
			"offset":  result.Offset,
			"delay":   result.Delay,
			"stratum": result.Stratum,
		}).Info("synchronized")
	}
	return true
}

func (k *keeper) Run(ctx context.Context, period time.Duration) {
	for {
		if k.tick() {
			k.logCurrentTime()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(period):
		}
	}
}

func (k *keeper) logCurrentTime() {
	k.lock.Lock()
	defer k.lock.Unlock()

	formatted, err := k.client.FormattedServerTime()
	if err != nil {
		return
	}
	k.logger.WithField("since_sync", k.client.TimeSinceLastSync()).Debug("server time ", formatted)
}

func (k *keeper) Status() rpc.Status {
	k.lock.Lock()
	defer k.lock.Unlock()

	status := rpc.Status{
		Server: k.client.Server(),
		Synced: k.client.IsSynced(),
	}
	if k.lastErr != nil {
		status.LastError = k.lastErr.Error()
	}
	if !status.Synced {
		return status
	}

	if serverTime, err := k.client.CurrentServerTime(); err == nil {
		status.ServerTime = serverTime
	}
	status.SinceLastSync = k.client.TimeSinceLastSync()
	if result, ok := k.client.LastResult(); ok {
		status.Offset = result.Offset
		status.Delay = result.Delay
		status.ErrorBound = result.ErrorBound()
		status.Stratum = result.Stratum
		status.ReferenceID = result.ReferenceID
	}
	return status
}
