/*
Package recon reconstructs a fixed-length binary value from many noisy
hexadecimal observations of it.

# Pipeline

Reconstruction is three pure stages:

 1. convert each sample to a fixed-width, MSB-first bit sequence (FromHex)
 2. aggregate the fraction of samples holding 1 at every position (Aggregate)
 3. classify every position against a threshold and group the bits into
    bytes (Reconstruct)

Run chains the three stages:

	seqs, err := set.Sequences()
	if err != nil {
	    return err
	}
	res, err := recon.Run(ctx, seqs, recon.Options{Threshold: 0.51})
	if err != nil {
	    return err
	}
	fmt.Println(res.Value.Unknown(), "undetermined bytes")

# Classification

For a threshold t in (0.5, 1], a position whose frequency is above t is 1,
below 1-t is 0, and anything else (including the exact boundaries) is
unknown. A byte holding any unknown bit is undetermined, and so is a trailing
group shorter than eight bits.

# Output

Value is a sequence of raw bytes with an undetermined marker. Turning it into
text is the caller's decision; see internal/render for the encodings the CLI
offers.
*/
package recon
