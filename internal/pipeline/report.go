package pipeline

import (
	"fmt"
	"io"
)

// WriteReport prints the console summary used by the CLI.
func (p *Prediction) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\n--- PREDICTION RESULTS ---\n"+
		"Drawing Model (prob Parkinson): %.4f\n"+
		"Voice  Model (prob Parkinson): %.4f\n"+
		"Combined score (weighted):    %.4f\n"+
		"Decision: %s\n"+
		"Confidence: %.2f (0 low -> 1 high)\n",
		p.DrawingProb, p.VoiceProb, p.CombinedScore, p.Label, p.Confidence)
	if err != nil {
		return err
	}
	if p.Caution != nil {
		_, err = fmt.Fprintln(w, *p.Caution)
	}
	return err
}
