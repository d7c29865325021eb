// rpcclient-ctl issues one JSON-RPC call against a configured endpoint and
// prints the result as JSON. Deferred ".task" methods are polled to
// completion unless -async is given, in which case the tool waits on the
// returned future explicitly.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Luftzig/ajillion-rpc-client/pkg/client"
	"github.com/Luftzig/ajillion-rpc-client/pkg/config"
	"github.com/Luftzig/ajillion-rpc-client/pkg/observability"
	"github.com/Luftzig/ajillion-rpc-client/pkg/rpc"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	method := flag.String("method", "", "dotted method name, e.g. advertisers.get")
	paramsJSON := flag.String("params", "{}", "call params as a JSON object")
	async := flag.Bool("async", false, "run a deferred task asynchronously")
	timeout := flag.Duration("timeout", 0, "per-call poll timeout (0 = configured default)")
	flag.Parse()

	if *method == "" {
		fatalf("-method is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		fatalf("setup logger: %v", err)
	}
	defer logger.Sync()

	var params rpc.Params
	if err := json.Unmarshal([]byte(*paramsJSON), &params); err != nil {
		fatalf("parse -params: %v", err)
	}

	ctx := context.Background()
	c, err := client.New(ctx, cfg, client.Options{Logger: logger})
	if err != nil {
		fatalf("connect: %v", err)
	}

	var opts []rpc.CallOption
	if *timeout > 0 {
		opts = append(opts, rpc.WithTimeout(*timeout))
	}

	start := time.Now()
	var result any
	if *async {
		future, err := c.Method(*method).CallAsync(ctx, params, opts...)
		if err != nil {
			fatalf("call: %v", err)
		}
		logger.Info("task submitted, waiting on future", zap.String("method", *method))
		if result, err = future.Wait(ctx); err != nil {
			fatalf("wait: %v", err)
		}
	} else {
		if result, err = c.Method(*method).Call(ctx, params, opts...); err != nil {
			fatalf("call: %v", err)
		}
	}
	logger.Debug("call finished", zap.Duration("elapsed", time.Since(start)))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "rpcclient-ctl: "+format+"\n", args...)
	os.Exit(1)
}
