package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/jwtradera/scrt-strongbox/viewingkey"
)

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:  "seed",
		Value: "",
		Usage: "hex-encoded master seed to split, generated randomly if empty",
	},
	&cli.IntFlag{
		Name:  "shares",
		Value: 5,
		Usage: "number of shares to produce",
	},
	&cli.IntFlag{
		Name:  "threshold",
		Value: 3,
		Usage: "number of shares required to reconstruct the seed",
	},
}

// seedtool splits a master seed into Shamir shares for distribution to
// custodians. Shares are printed to stdout, one hex string per line, for
// use with strongboxd's --seed-share flag.
func main() {
	app := &cli.App{
		Name:  "seedtool",
		Usage: "Split a strongbox master seed into Shamir shares",
		Flags: flags,
		Action: func(cCtx *cli.Context) error {
			seedHex := cCtx.String("seed")
			parts := cCtx.Int("shares")
			threshold := cCtx.Int("threshold")

			var seed []byte
			if seedHex == "" {
				seed = make([]byte, interfaces.MinSeedLen)
				if _, err := rand.Read(seed); err != nil {
					return fmt.Errorf("failed to generate seed: %w", err)
				}
				fmt.Fprintf(os.Stderr, "generated seed: %x\n", seed)
			} else {
				var err error
				seed, err = hex.DecodeString(seedHex)
				if err != nil {
					return fmt.Errorf("invalid seed encoding: %w", err)
				}
			}

			shares, err := viewingkey.SplitSeed(seed, parts, threshold)
			if err != nil {
				return err
			}

			for _, share := range shares {
				fmt.Println(hex.EncodeToString(share))
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
