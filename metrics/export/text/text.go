package text

import (
	"bufio"
	"io"
	"strconv"

	goStats "github.com/MrEthical07/goStats"
	"github.com/MrEthical07/goStats/metrics/export/internaldefs"
)

const indent = "  "

// Lines renders every counter and probe present in snapshot.
func Lines(snapshot goStats.StatsSnapshot) []string {
	out := make([]string, 0, len(snapshot.Counters)+len(snapshot.Probes)*5)

	for _, id := range goStats.CounterIDs() {
		v, ok := snapshot.Counters[id]
		if !ok {
			continue
		}
		out = append(out, id.String()+" = "+strconv.FormatUint(v, 10))
	}

	for _, def := range internaldefs.ProbeDefs {
		s, ok := snapshot.Probes[def.ID]
		if !ok {
			continue
		}
		header := def.ID.String()
		if def.IsDuration {
			header += " (" + snapshot.Unit.String() + ")"
		}
		out = append(out, header+":")
		for _, line := range s.Info() {
			out = append(out, indent+line)
		}
	}

	return out
}

// Write writes Lines(snapshot) to w, one per line.
func Write(w io.Writer, snapshot goStats.StatsSnapshot) error {
	bw := bufio.NewWriter(w)
	for _, line := range Lines(snapshot) {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
