package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nci/rastercmp/metrics"
	proc "github.com/nci/rastercmp/processor"
	"github.com/nci/rastercmp/raster"
	"github.com/nci/rastercmp/utils"
	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/net/context"
)

const (
	exitPassed   = 0
	exitMismatch = 1
	exitError    = 2
)

var passed string = "Passed"
var failed string = "Failed"
var errored string = "Error"

func inRed(str string) string {
	return fmt.Sprintf("\x1b[31;1m%s\x1b[0m", str)
}

func inGreen(str string) string {
	return fmt.Sprintf("\x1b[32;1m%s\x1b[0m", str)
}

func inYellow(str string) string {
	return fmt.Sprintf("\x1b[33;1m%s\x1b[0m", str)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] golden new\n       %s [options] -config batch.yaml\n\n", os.Args[0], os.Args[0])
	flag.PrintDefaults()
}

func loadConfig(configFile string, args []string) (*utils.Config, error) {
	if configFile != "" {
		if len(args) != 0 {
			return nil, fmt.Errorf("dataset paths cannot be combined with -config")
		}
		return utils.LoadConfig(configFile)
	}

	if len(args) != 2 {
		return nil, fmt.Errorf("expecting a golden and a new dataset path")
	}
	return utils.NewConfig(utils.Pair{Golden: args[0], New: args[1]})
}

func printResult(res *proc.PairResult, verbose bool) {
	name := res.Pair.Name
	if name == "" {
		name = res.Pair.Golden
	}
	fmt.Printf("Comparing %s: ", name)

	switch {
	case res.Err != nil:
		fmt.Println(errored)
		fmt.Printf("    %v\n", res.Err)
	case res.Passed:
		fmt.Println(passed, res.Duration)
	default:
		fmt.Println(failed, res.Duration)
	}

	for _, m := range res.Mismatches() {
		fmt.Printf("    %s\n", m)
	}

	if verbose && res.Bands != nil && len(res.Bands.Skipped) > 0 {
		fmt.Printf("    not checked: %s\n", strings.Join(res.Bands.Skipped, ", "))
	}
}

func main() {
	configFile := flag.String("config", "", "YAML batch file listing golden/new pairs")
	policyExpr := flag.String("policy", "", "pass policy over geotransform, projection and bands (overrides config)")
	reportFile := flag.String("report", "", "append JSON result records to this file (overrides config)")
	conc := flag.Int("n", 0, "number of pairs compared concurrently (overrides config)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	config, err := loadConfig(*configFile, flag.Args())
	if err != nil {
		log.Printf("%v", err)
		usage()
		os.Exit(exitError)
	}
	if *policyExpr != "" {
		config.Policy = *policyExpr
	}
	if *reportFile != "" {
		config.ReportFile = *reportFile
	}
	if *conc > 0 {
		config.Concurrency = *conc
	}
	config.Verbose = config.Verbose || *verbose

	policy, err := proc.NewPolicy(config.Policy)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(exitError)
	}

	if terminal.IsTerminal(int(os.Stdout.Fd())) {
		passed = inGreen(passed)
		failed = inRed(failed)
		errored = inYellow(errored)
	}

	var logger metrics.Logger
	if config.ReportFile != "" {
		fileLogger, err := metrics.NewFileLogger(config.ReportFile, config.MaxReportSize, 0, config.Verbose)
		if err != nil {
			log.Printf("report file: %v", err)
			os.Exit(exitError)
		}
		logger = fileLogger
	} else if config.Verbose {
		logger = metrics.NewStdoutLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("Caught signal, cancelling remaining comparisons")
		cancel()
	}()

	raster.InitGdal()
	pc := proc.NewPairComparator(policy, config.MissingGeoref, config.Verbose)
	results := proc.RunBatch(ctx, config.Pairs, pc, config.Concurrency, logger)
	cancel()

	status := exitPassed
	for _, res := range results {
		printResult(res, config.Verbose)
		if res.Err != nil {
			status = exitError
		} else if !res.Passed && status == exitPassed {
			status = exitMismatch
		}
	}

	if fl, ok := logger.(*metrics.FileLogger); ok {
		fl.Close()
	}
	os.Exit(status)
}
