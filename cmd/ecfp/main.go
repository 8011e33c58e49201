// Command ecfp exposes the curve arithmetic, ECDSA, ECDH and modular
// exponentiation from the shell. Inputs and outputs are hex.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
)

func main() {
	// log to stderr unless the caller asks for log files
	if err := flag.Set("logtostderr", "true"); err != nil {
		panic(err)
	}
	defer glog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		glog.Flush()
		os.Exit(1)
	}
}
