// Copyright 2026 The Postform Go authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// postform-demo writes a stream of deferred-formatting log records to a
// file. The record mix deliberately interleaves strings, negative numbers
// and large values, the worst case for a decoder without proper framing.
package main

import (
	"log"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	postform "github.com/postform-dev/postform-go"
	"github.com/postform-dev/postform-go/filelog"
)

var iterations int

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
}

func main() {
	cmd := &cobra.Command{
		Use:          "postform-demo OUTPUT",
		Short:        "write demo log records to OUTPUT",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "number of demo iterations")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(output string) error {
	// Demo timestamps are a plain sequence number at 1 Hz.
	var ticks atomic.Uint64
	postform.SetTimestampSource(func() uint64 {
		return ticks.Inc() - 1
	})
	postform.DeclareConfig(postform.Config{TimestampFrequency: 1})

	logger, err := filelog.New(afero.NewOsFs(), output)
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Close(); err != nil {
			log.Printf("closing %s: %v", output, err)
		}
	}()

	lorem := postform.InternUser(
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit. " +
			"Vivamus quis tellus ac enim sagittis malesuada.")

	bar := pb.StartNew(iterations)
	for i := 0; i < iterations; i++ {
		logger.Debugf("Iteration number: %u", uint32(i))
		logger.Debugf("Is this %s or what?!", "nice")
		logger.Infof("I am %d years old...", int32(28))
		logger.Warningf("Third string! With multiple %s and more numbers: %d", "args", int32(-1124))
		logger.Errorf("Oh boy, error %d just happened", int32(234556))
		logger.Errorf("This is my char array: %s", "123")
		logger.Infof("A %%k interned string costs one pointer: %k", lorem)
		bar.Increment()
	}
	bar.Finish()

	log.Printf("wrote %d iterations to %s", iterations, output)
	return nil
}
