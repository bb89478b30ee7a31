// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// ta-attack recovers a DES last-round subkey from a timing-attack
// acquisition file via Kocher's correlation method.
//
// $ go run cmd/ta-attack/main.go -logtostderr -v=1 traces/ta.txt 2000
// [main.go:80] phase Loading traces/ta.txt
// [main.go:80] phase Ranking
// [main.go:80] phase Enumerating
// [main.go:80] phase Rescoring
// [main.go:80] phase Reporting
// [main.go:89] recovered subkey from 2000 acquisitions
// 0x1b02effc8713
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/PierreFrn/hwsec/acquisition"
	"github.com/PierreFrn/hwsec/engine"
	"github.com/PierreFrn/hwsec/internal/config"
)

var configFlag = flag.String("config", "", "Path to a TOML tuning-parameter file (optional)")

func init() {
	flag.Parse()
}

func main() {
	defer glog.Flush()
	if err := run(); err != nil {
		glog.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	args := flag.Args()
	if len(args) != 2 {
		return fmt.Errorf("usage: ta-attack [-config FILE] datafile n")
	}
	datafile := args[0]
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid n %q: %v", args[1], err)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	broker := engine.NewBroker()
	go broker.Start()
	defer broker.Stop()
	events := broker.Subscribe()
	defer broker.Unsubscribe(events)
	go func() {
		for ev := range events {
			glog.V(1).Infof("phase %s %s", ev.Phase, ev.Detail)
		}
	}()

	result, err := engine.RunTA(context.Background(), cfg, datafile, n, broker)
	if err != nil {
		return err
	}

	glog.V(1).Infof("recovered subkey from %d acquisitions", n)
	fmt.Println(acquisition.HexKey(result.Key))
	return nil
}
