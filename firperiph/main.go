package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cgxeiji/firperiph"
	"github.com/cgxeiji/firperiph/fir4"
)

func main() {
	var (
		busName  = flag.String("bus", "", `I²C bus name ("" runs the simulated peripheral)`)
		addr     = flag.Uint("addr", fir4.Addr, "I²C address of the peripheral")
		taps     = flag.String("taps", "64,64,64,64", "raw coefficient registers H0..H3")
		weights  = flag.String("weights", "", "real tap weights, overrides -taps")
		inPath   = flag.String("in", "", "input WAV file")
		outPath  = flag.String("out", "", "output WAV file")
		response = flag.Int("response", 0, "print the magnitude response at n FFT points")
		dump     = flag.Bool("dump", false, "print the registers before exiting")
	)
	flag.Parse()

	f, err := firperiph.New(
		firperiph.OnBus(*busName),
		firperiph.OnAddr(uint16(*addr)),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if *weights != "" {
		w, err := parseWeights(*weights)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetWeights(w); err != nil {
			log.Fatal(err)
		}
	} else {
		h, err := parseTaps(*taps)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetTaps(h); err != nil {
			log.Fatal(err)
		}
	}

	if err := f.Reset(); err != nil {
		log.Fatal(err)
	}
	if err := f.Enable(); err != nil {
		log.Fatal(err)
	}

	h, signed := f.Taps()
	fmt.Printf("taps = %v (signed: %v)\n", h, signed)

	if *response > 0 {
		mag, err := f.Response(*response)
		if err != nil {
			log.Fatal(err)
		}
		for k, m := range mag {
			fmt.Printf("  %.4f fs  %.4f\n", float64(k)/float64(*response), m)
		}
	}

	if *inPath != "" {
		if *outPath == "" {
			log.Fatal("-in needs -out")
		}
		if err := processFile(f, *inPath, *outPath); err != nil {
			log.Fatal(err)
		}
	}

	if flag.NArg() > 0 {
		xs := make([]byte, flag.NArg())
		for i, a := range flag.Args() {
			v, err := strconv.ParseUint(a, 0, 8)
			if err != nil {
				log.Fatalf("sample %q: %v", a, err)
			}
			xs[i] = byte(v)
		}
		ys, err := f.Process(xs)
		if err != nil {
			log.Fatal(err)
		}
		for i := range xs {
			fmt.Printf("%3d -> %3d\n", xs[i], ys[i])
		}
	}

	s := f.Stats()
	fmt.Printf("samples = %d, clipped = %d, min = %d, max = %d, mean = %.2f\n",
		s.Count, s.Clipped, s.Min, s.Max, s.Mean)

	if *dump {
		regs, err := f.Device().Dump()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("registers = % #02x\n", regs)
	}
}

func processFile(f *firperiph.Filter, in, out string) error {
	r, err := os.Open(in)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()

	return f.ProcessWAV(r, w)
}

func parseTaps(s string) ([fir4.NumTaps]byte, error) {
	var h [fir4.NumTaps]byte
	fields := strings.Split(s, ",")
	if len(fields) != fir4.NumTaps {
		return h, fmt.Errorf("want %d taps, got %d", fir4.NumTaps, len(fields))
	}
	for i, field := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 0, 8)
		if err != nil {
			return h, fmt.Errorf("tap %d: %w", i, err)
		}
		h[i] = byte(v)
	}
	return h, nil
}

func parseWeights(s string) ([fir4.NumTaps]float64, error) {
	var w [fir4.NumTaps]float64
	fields := strings.Split(s, ",")
	if len(fields) != fir4.NumTaps {
		return w, fmt.Errorf("want %d weights, got %d", fir4.NumTaps, len(fields))
	}
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return w, fmt.Errorf("weight %d: %w", i, err)
		}
		w[i] = v
	}
	return w, nil
}
