package recon_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshuapare/flagrecon/pkg/recon"
)

func ExampleRun() {
	var seqs []recon.Sequence
	for _, h := range []string{"F041", "F041", "7040"} {
		seq, err := recon.FromHex(h)
		if err != nil {
			panic(err)
		}
		seqs = append(seqs, seq)
	}

	res, err := recon.Run(context.Background(), seqs, recon.Options{})
	if err != nil {
		panic(err)
	}
	var parts []string
	for _, b := range res.Value {
		if b.Known {
			parts = append(parts, fmt.Sprintf("%#02x", b.Value))
		} else {
			parts = append(parts, "?")
		}
	}
	fmt.Println(strings.Join(parts, " "))
	fmt.Println("unknown:", res.Value.Unknown())
	// Output:
	// 0xf0 0x41
	// unknown: 0
}
