// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync/atomic"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/openstake/openstake/api"
	"github.com/openstake/openstake/kv"
	"github.com/openstake/openstake/ledger"
	"github.com/openstake/openstake/log"
	"github.com/openstake/openstake/metrics"
	"github.com/openstake/openstake/stake"
	"github.com/openstake/openstake/tick"
	"github.com/openstake/openstake/token"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

var (
	tokenSpace  = kv.Bucket("token/")
	ledgerSpace = kv.Bucket("ledger/")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "OpenStake",
		Usage:     "Token staking ledger service",
		Copyright: "2025 The OpenStake developers",
		Flags: []cli.Flag{
			dataDirFlag,
			ownerFlag,
			custodyFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			enableAPILogsFlag,
			adminAddrFlag,
			enableAdminFlag,
			enableMetricsFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			onDemandFlag,
			faucetFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	owner, custody, err := parseLedgerAccounts(ctx)
	if err != nil {
		fatal(err)
	}

	mainDB := openMainDB(ctx)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	var (
		ticks  tick.Source
		manual *tick.Manual
		launch time.Time
	)
	if ctx.Bool(onDemandFlag.Name) {
		manual = tick.NewManual(0)
		ticks = manual
		launch = time.Now()
	} else {
		launch, err = loadOrInitLaunchTime(mainDB)
		if err != nil {
			fatal(err)
		}
		ticks = tick.NewBlockSource(launch, stake.BlockInterval)
	}

	tok := token.New(tokenSpace.NewStore(mainDB), token.Metadata{
		Name:     "OpenStake Token",
		Symbol:   "OST",
		Decimals: 18,
	})
	if err := runFaucet(ctx, tok); err != nil {
		fatal(err)
	}

	ldgr := ledger.New(ledgerSpace.NewStore(mainDB), owner, custody)

	logAPIRequests := &atomic.Bool{}
	logAPIRequests.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler := api.New(ldgr, tok, ticks, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		PprofOn:        ctx.Bool(pprofFlag.Name),
		LogRequests:    logAPIRequests,
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})

	apiURL, apiCloser, err := startAPIServer(ctx, apiHandler)
	if err != nil {
		fatal(err)
	}
	defer func() { log.Info("stopping API server..."); apiCloser() }()

	adminURL := "disabled"
	if ctx.Bool(enableAdminFlag.Name) {
		admin := api.NewAdmin(
			ctx.String(adminAddrFlag.Name),
			logLevel,
			logAPIRequests,
			ctx.Bool(enableMetricsFlag.Name),
		).WithHealthCheck(func() error {
			_, err := mainDB.Has(launchTimeKey)
			return err
		})
		if manual != nil {
			admin = admin.WithManualTicker(manual)
		}
		url, adminCloser, err := admin.Start()
		if err != nil {
			fatal(err)
		}
		defer func() { log.Info("stopping admin server..."); adminCloser() }()
		adminURL = url
	}

	printStartupMessage(ctx.String(dataDirFlag.Name), apiURL, adminURL, owner, custody, launch, ticks)

	<-handleExitSignal().Done()
	return nil
}

// runFaucet mints a dev allowance to each listed address. Minting is
// idempotent enough for dev use; repeated starts just grow the balances.
func runFaucet(ctx *cli.Context, tok *token.Ledger) error {
	list := strings.TrimSpace(ctx.String(faucetFlag.Name))
	if list == "" {
		return nil
	}

	allowance := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e6))
	for _, s := range strings.Split(list, ",") {
		addr, err := stake.ParseAddress(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		if err := tok.Mint(addr, allowance); err != nil {
			return err
		}
		log.Info("faucet funded account", "account", addr, "amount", allowance)
	}
	return nil
}
