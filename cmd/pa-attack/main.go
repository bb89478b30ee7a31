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

// pa-attack recovers a DES last-round subkey from a power-analysis
// capture file via Kocher's correlation method. Before ranking, it
// writes the average trace to average.dat/average.cmd.
//
// $ go run cmd/pa-attack/main.go -logtostderr -v=1 traces/pa.json.gz 500
// [main.go:85] target_bit 1 maps to S-box 3 (diagnostic only)
// [main.go:99] phase Loading traces/pa.json.gz
// [main.go:99] phase Averaging average
// [main.go:99] phase Ranking
// [main.go:99] phase Enumerating
// [main.go:99] phase Rescoring
// [main.go:99] phase Reporting
// [main.go:108] recovered subkey from 500 acquisitions
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
	"github.com/PierreFrn/hwsec/des"
	"github.com/PierreFrn/hwsec/engine"
	"github.com/PierreFrn/hwsec/internal/config"
	"github.com/PierreFrn/hwsec/internal/hwsecerr"
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
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: pa-attack [-config FILE] datafile n [target_bit]")
	}
	datafile := args[0]
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid n %q: %v", args[1], err)
	}

	targetBit := 1
	if len(args) == 3 {
		targetBit, err = strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid target_bit %q: %v", args[2], err)
		}
	}
	if targetBit < 1 || targetBit > 32 {
		return hwsecerr.New(hwsecerr.BadInput, "invalid target bit index: %d (shall be between 1 and 32 included)", targetBit)
	}
	// Diagnostic only: the attack never branches on target_bit past this
	// log line, per the reference implementation.
	glog.V(1).Infof("target_bit %d maps to S-box %d (diagnostic only)", targetBit, des.TargetBitSbox(targetBit))

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

	result, err := engine.RunPA(context.Background(), cfg, datafile, n, "average", broker)
	if err != nil {
		return err
	}

	glog.V(1).Infof("recovered subkey from %d acquisitions", n)
	fmt.Println(acquisition.HexKey(result.Key))
	return nil
}
