package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"bee-crypto/pkg/selftest"
)

var selftestCommand = &cli.Command{
	Name:  "selftest",
	Usage: "Check the ciphers against known-answer vectors",
	Action: func(c *cli.Context) error {
		failed := 0
		for _, r := range selftest.Run() {
			status := "ok"
			if !r.OK() {
				status = "FAIL: " + r.Err.Error()
				failed++
			}
			fmt.Fprintf(c.App.Writer, "%-24s %s\n", r.Vector.Name, status)
		}
		if failed > 0 {
			return cli.Exit(fmt.Sprintf("%d self-test vectors failed", failed), 1)
		}
		return nil
	},
}
