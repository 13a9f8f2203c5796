// Generates a sample allowlist CSV for bench setups: unique 5-digit IDs
// starting with 1, random max-block values for the A and B rotations.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/juju/errors"

	"github.com/passpoint/kiosk/head/allowlist"
	"github.com/passpoint/kiosk/log2"
)

var log = log2.NewStderr(log2.LInfo)

const (
	idPrefix = 1
	idLength = 5
)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagOut := cmdline.String("o", "Allowlist.csv", "output path")
	flagCount := cmdline.Int("n", 200, "number of rows")
	flagSeed := cmdline.Int64("seed", 0, "rng seed, 0 picks one")
	_ = cmdline.Parse(os.Args[1:])
	log.SetFlags(log2.LInteractiveFlags)

	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	f, err := os.Create(*flagOut)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	if err := generate(f, *flagCount, rand.New(rand.NewSource(seed))); err != nil {
		log.Fatal(errors.ErrorStack(errors.Annotatef(err, "path=%s", *flagOut)))
	}
	if err := f.Close(); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	log.Infof("wrote path=%s rows=%d seed=%d", *flagOut, *flagCount, seed)
}

// generate writes a header row and count records: unique IDs with the
// first digit fixed to idPrefix, A/B max blocks drawn from 1..4, empty
// note column.
func generate(w io.Writer, count int, rng *rand.Rand) error {
	span := 1
	for i := 0; i < idLength-1; i++ {
		span *= 10
	}
	if count > span {
		return errors.Errorf("count=%d exceeds %d distinct ids", count, span)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{allowlist.DefaultIDColumn, "A", "B", "log"}); err != nil {
		return err
	}
	for _, x := range rng.Perm(span)[:count] {
		row := []string{
			strconv.Itoa(idPrefix*span + x),
			strconv.Itoa(1 + rng.Intn(4)),
			strconv.Itoa(1 + rng.Intn(4)),
			"",
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
