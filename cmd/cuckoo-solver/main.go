// Command cuckoo-solver runs the CPU edge-trimming solver over a range of
// header nonces and prints any proofs it finds.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Qitmeer/qitmeer-cuckoo/cuckoo"
	"github.com/Qitmeer/qitmeer-cuckoo/pow"
)

type options struct {
	Device        int    `short:"d" long:"device" default:"0" description:"Accelerator device index (accepted for interface parity; the CPU engine ignores it)"`
	Header        string `short:"h" long:"header" default:"" description:"Hex-encoded header bytes to hash"`
	NTrims        int    `short:"m" long:"ntrims" default:"0" description:"Number of trim rounds; 0 keeps the default (120)"`
	Nonce         uint64 `short:"n" long:"nonce" default:"0" description:"First header nonce to try"`
	Range         uint64 `short:"r" long:"range" default:"1" description:"Number of consecutive header nonces to try"`
	SeedBlocks    int    `short:"U" long:"seedblocks" default:"64" description:"Seeder launch blocks (accepted for interface parity; the CPU engine ignores it)"`
	RecoverBlocks int    `short:"Z" long:"recoverblocks" default:"64" description:"Recovery launch blocks (accepted for interface parity; the CPU engine ignores it)"`
	RecoverTPB    int    `short:"z" long:"recovertpb" default:"1" description:"Recovery threads per block (accepted for interface parity)"`
	CPULoad       bool   `short:"c" long:"cpuload" description:"Busy-spin the host thread waiting on worker groups instead of yielding"`
	ShowParams    bool   `short:"s" long:"showparams" description:"Print the resolved solver parameters and exit"`
	EdgeBits      uint   `short:"e" long:"edgebits" default:"29" description:"Log2 of the number of edges in the graph"`
	ProofSize     int    `short:"p" long:"proofsize" default:"42" description:"Length of the cycle to search for"`
}

func main() {
	var opts options
	// The built-in help flag is left out: its -h would collide with -h/--header.
	parser := flags.NewParser(&opts, flags.Default&^flags.HelpFlag)
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	params := buildParams(opts)

	if opts.ShowParams {
		printParams(params)
		os.Exit(0)
	}

	if err := params.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid parameters:", err)
		os.Exit(1)
	}

	header, err := pow.ParseHeader(opts.Header)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid header:", err)
		os.Exit(1)
	}

	c, err := cuckoo.NewSolverContext(params)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize solver:", err)
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Info("cuckoo-solver: interrupt received, stopping")
		c.Stop()
		cancel()
	}()

	log.Info("cuckoo-solver: starting", "nonce", opts.Nonce, "range", opts.Range, "edgebits", params.EdgeBits)

	found, stats, err := c.RunSolver(ctx, []byte(header), opts.Nonce, opts.Range)
	if err != nil {
		fmt.Fprintln(os.Stderr, "solve failed:", err)
		os.Exit(1)
	}

	log.Info("cuckoo-solver: finished", "solutions", stats.Solutions, "duplicateEdges", stats.DuplicateEdges)

	if len(found) == 0 {
		fmt.Println("no solutions found")
		return
	}

	for _, nonces := range found {
		proof := pow.NewProof(params, nonces)
		fmt.Printf("solution: cyclehash=%s nonces=%v\n", pow.Cyclehash(proof), proof.Nonces)
	}
}

// buildParams layers command-line overrides onto the recognized defaults,
// the same precedence order a config loader applies between its
// compiled-in defaults and parsed flags.
func buildParams(opts options) cuckoo.Params {
	p := cuckoo.FillDefaultParams()
	p.Device = opts.Device
	p.CPULoad = opts.CPULoad
	if opts.EdgeBits != 0 {
		p.EdgeBits = opts.EdgeBits
	}
	if opts.ProofSize != 0 {
		p.ProofSize = opts.ProofSize
	}
	if opts.NTrims != 0 {
		p.NTrims = opts.NTrims
	}
	return p
}

func printParams(p cuckoo.Params) {
	d := p.Derive()
	fmt.Printf("EdgeBits:   %d\n", p.EdgeBits)
	fmt.Printf("ProofSize:  %d\n", p.ProofSize)
	fmt.Printf("BuckBits:   %d\n", p.BuckBits)
	fmt.Printf("IdxShift:   %d\n", p.IdxShift)
	fmt.Printf("Variant:    %d\n", p.Variant)
	fmt.Printf("Device:     %d\n", p.Device)
	fmt.Printf("NTrims:     %d\n", p.NTrims)
	fmt.Printf("CPULoad:    %v\n", p.CPULoad)
	fmt.Printf("MutateNonce:%v\n", p.MutateNonce)
	fmt.Printf("NepsA:      %d\n", p.NepsA)
	fmt.Printf("NepsB:      %d\n", p.NepsB)
	fmt.Printf("MaxSols:    %d\n", p.MaxSols)
	fmt.Printf("NEdges:     %d\n", d.NEdges)
	fmt.Printf("NB:         %d\n", d.NB)
	fmt.Printf("ZBits:      %d\n", d.ZBits)
	fmt.Printf("MaxEdges:   %d\n", d.MaxEdges)
}
