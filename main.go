package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rcrowley/go-metrics"

	"github.com/AdrienHorgnies/bcqueue/control"
	"github.com/AdrienHorgnies/bcqueue/params"
)

const usage = `
bcqueue [flags] [parameters_dir]

Simulates a proof-of-work blockchain as a single-server queue with batch
service: transactions arrive in a mempool, are selected in blocks of up to b
transactions, and each selected block is mined before broadcast.

Two queueing disciplines are available; at least one must be selected:

	-mm1     Poisson arrivals, exponential selection and mining
	-mapph1  Markovian Arrival Process arrivals, phase-type selection/mining

parameters_dir defaults to "parameters" and must contain one CSV file per
parameter: b, tau, sigma, upsilon, lambda, mu1, mu2, C, D, omega, S, beta,
T, alpha, and either ratios or fee_min/fee_loc/fee_max/fee_scale.
`

const version = "0.1.0"

func main() {
	var (
		configFile, dataDir string
		showVersion         bool
		seed                int64
		mm1, mapph1, fees   bool
		serve               bool
		rpcAddr             string
		storePath           string
		replications        int
		debug               bool
	)
	flag.CommandLine.Usage = func() {
		fmt.Fprintf(os.Stderr, usage)
		flag.CommandLine.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
	}
	flag.StringVar(&configFile, "c", "",
		fmt.Sprintf("Path to config file (alternatively, use %s env var).", configFileEnv))
	flag.StringVar(&dataDir, "d", "",
		fmt.Sprintf("Path to data directory (alternatively, use %s env var).", dataDirEnv))
	flag.BoolVar(&showVersion, "version", false, "Show app version.")
	flag.Int64Var(&seed, "seed", 42, "Root seed for the RNG streams.")
	flag.BoolVar(&mm1, "mm1", false, "Simulate the M/M/1 queue.")
	flag.BoolVar(&mapph1, "mapph1", false, "Simulate the MAP/PH/1 queue.")
	flag.BoolVar(&fees, "fees", false,
		"Transactions carry fees; selection takes the highest-fee transactions first.")
	flag.BoolVar(&serve, "serve", false,
		"Expose the run over the control JSON-RPC service for its duration.")
	flag.StringVar(&rpcAddr, "rpc-addr", "",
		"Control service address (host:port); defaults to the config apprpc setting.")
	flag.StringVar(&storePath, "store", "",
		"Persist recorded measures to a boltdb file at the given path.")
	flag.IntVar(&replications, "replications", 1,
		"Number of independent replications per queue.")
	flag.BoolVar(&debug, "debug", false, "Log [DEBUG] messages too.")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}
	if !mm1 && !mapph1 {
		flag.CommandLine.Usage()
		os.Exit(1)
	}
	if replications < 1 {
		log.Fatal("replications must be >= 1")
	}

	paramsDir := "parameters"
	if args := flag.Args(); len(args) > 0 {
		paramsDir = args[0]
	}

	cfg, err := loadConfig(configFile, dataDir)
	if err != nil {
		log.Fatal(err)
	}
	if rpcAddr == "" {
		rpcAddr = net.JoinHostPort(cfg.AppRPC.Host, cfg.AppRPC.Port)
	}

	p, err := params.LoadFrom(paramsDir)
	if err != nil {
		log.Fatal(fmt.Errorf("loading parameters from %s: %v", paramsDir, err))
	}

	// Setup the logger. A plain run prints to stdout; a served run logs to
	// the configured logfile.
	var out io.Writer = os.Stdout
	if serve {
		logFileMode := os.O_WRONLY | os.O_CREATE | os.O_APPEND
		f, err := os.OpenFile(cfg.LogFile, logFileMode, 0666)
		if err != nil {
			log.Fatal(fmt.Errorf("opening logfile: %v", err))
		}
		out = f
	}
	dLog := NewDebugLog(out, "", log.LstdFlags)
	dLog.SetDebug(debug)
	defer dLog.Close()

	registry := metrics.NewRegistry()
	sess := &session{}
	if serve {
		service := &control.Service{Ctl: sess, Registry: registry, Addr: rpcAddr}
		go func() {
			if err := service.ListenAndServe(); err != nil {
				log.Fatal(fmt.Errorf("control service: %v", err))
			}
		}()
	}

	// Signal handling
	sigc := make(chan os.Signal, 3)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigc
		sess.Stop()
	}()

	runs := make([]*queueRun, 0, 2)
	if mm1 {
		runs = append(runs, &queueRun{name: "mm1", label: "M/M/1"})
	}
	if mapph1 {
		runs = append(runs, &queueRun{name: "mapph1", label: "MAP/PH/1"})
	}
	for _, r := range runs {
		r.p = p
		r.seed = seed
		r.fees = fees
		r.replications = replications
		r.registry = registry
		r.storePath = storePath
		r.logger = dLog.Logger
		if err := r.run(sess); err != nil {
			log.Fatal(err)
		}
	}
}
