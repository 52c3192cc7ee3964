// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/openstake/openstake/co"
	"github.com/openstake/openstake/kv"
	"github.com/openstake/openstake/log"
	"github.com/openstake/openstake/stake"
	"github.com/openstake/openstake/tick"
)

var launchTimeKey = []byte("config/launch-time")

func fatal(args ...interface{}) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.openstake")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "OpenStake")
		default:
			return filepath.Join(home, ".org.openstake")
		}
	}
	return ""
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	level := &slog.LevelVar{}
	level.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandler(os.Stdout, level)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandler(os.Stdout, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))

	return level
}

func openMainDB(ctx *cli.Context) kv.StoreCloser {
	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}

	db, err := kv.New(filepath.Join(dataDir, "main.db"), 128, 512)
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dataDir, err))
	}
	return db
}

// loadOrInitLaunchTime returns the persisted launch timestamp, writing the
// current time on first start. The time reference derives from it, so it must
// survive restarts.
func loadOrInitLaunchTime(store kv.Store) (time.Time, error) {
	data, err := store.Get(launchTimeKey)
	if err != nil {
		if !store.IsNotFound(err) {
			return time.Time{}, errors.Wrap(err, "get launch time")
		}
		launch := uint64(time.Now().Unix())
		data, err := rlp.EncodeToBytes(launch)
		if err != nil {
			return time.Time{}, errors.Wrap(err, "encode launch time")
		}
		if err := store.Put(launchTimeKey, data); err != nil {
			return time.Time{}, errors.Wrap(err, "save launch time")
		}
		return time.Unix(int64(launch), 0), nil
	}

	var launch uint64
	if err := rlp.DecodeBytes(data, &launch); err != nil {
		return time.Time{}, errors.Wrap(err, "decode launch time")
	}
	return time.Unix(int64(launch), 0), nil
}

func parseLedgerAccounts(ctx *cli.Context) (owner, custody stake.Address, err error) {
	ownerStr := ctx.String(ownerFlag.Name)
	if ownerStr == "" {
		return stake.Address{}, stake.Address{}, errors.New("owner: required")
	}
	owner, err = stake.ParseAddress(ownerStr)
	if err != nil {
		return stake.Address{}, stake.Address{}, errors.WithMessage(err, "owner")
	}

	custodyStr := ctx.String(custodyFlag.Name)
	if custodyStr == "" {
		return owner, owner, nil
	}
	custody, err = stake.ParseAddress(custodyStr)
	if err != nil {
		return stake.Address{}, stake.Address{}, errors.WithMessage(err, "custody")
	}
	return owner, custody, nil
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	timeout := ctx.Uint64(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, time.Duration(timeout)*time.Millisecond, "request timeout")
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func handleExitSignal() context.Context {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(dataDir, apiURL, adminURL string, owner, custody stake.Address, launch time.Time, ticks tick.Source) {
	fmt.Printf(`Starting OpenStake
    Data dir    [ %v ]
    API portal  [ %v ]
    Admin       [ %v ]
    Owner       [ %v ]
    Custody     [ %v ]
    Launched    [ %v ]
    Time ref    [ %v ]
`,
		dataDir,
		apiURL,
		adminURL,
		owner,
		custody,
		launch.Format(time.RFC3339),
		ticks.Now(),
	)
}
