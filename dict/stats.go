package dict

import (
	"fmt"
	"strings"
)

// statsVectLen caps the chain-length histogram; longer chains are folded
// into the last slot.
const statsVectLen = 50

// Stats returns a human-readable report of the bucket and chain-length
// distribution of each generation, for diagnosing a pathological hash
// capability. It is an introspection aid, not a stable machine format.
func (d *Dict) Stats() string {
	var b strings.Builder
	tableStats(&b, &d.ht[0], 0)
	if d.IsRehashing() {
		b.WriteByte('\n')
		tableStats(&b, &d.ht[1], 1)
	}
	return b.String()
}

func tableStats(b *strings.Builder, ht *table, tableID int) {
	name := "main hash table"
	if tableID == 1 {
		name = "rehashing target"
	}

	if ht.used == 0 {
		fmt.Fprintf(b, "Hash table %d stats (%s):\nNo stats available for empty dictionaries\n", tableID, name)
		return
	}

	var (
		slots       uint64 // non-empty buckets
		chainlen    uint64
		totchainlen uint64
		maxchain    uint64
		clvector    [statsVectLen]uint64
	)
	for i := uint64(0); i < ht.size; i++ {
		if ht.buckets[i] == nil {
			clvector[0]++
			continue
		}
		slots++
		chainlen = 0
		for he := ht.buckets[i]; he != nil; he = he.next {
			chainlen++
		}
		if chainlen < statsVectLen {
			clvector[chainlen]++
		} else {
			clvector[statsVectLen-1]++
		}
		if chainlen > maxchain {
			maxchain = chainlen
		}
		totchainlen += chainlen
	}

	fmt.Fprintf(b, "Hash table %d stats (%s):\n", tableID, name)
	fmt.Fprintf(b, " table size: %d\n", ht.size)
	fmt.Fprintf(b, " number of elements: %d\n", ht.used)
	fmt.Fprintf(b, " different slots: %d\n", slots)
	fmt.Fprintf(b, " max chain length: %d\n", maxchain)
	fmt.Fprintf(b, " avg chain length (counted): %.02f\n", float64(totchainlen)/float64(slots))
	fmt.Fprintf(b, " avg chain length (computed): %.02f\n", float64(ht.used)/float64(slots))
	b.WriteString(" Chain length distribution:\n")
	for i := 0; i < statsVectLen; i++ {
		if clvector[i] == 0 {
			continue
		}
		label := fmt.Sprintf("%d", i)
		if i == statsVectLen-1 {
			label = fmt.Sprintf(">= %d", i)
		}
		fmt.Fprintf(b, "   %s: %d (%.02f%%)\n", label, clvector[i], float64(clvector[i])/float64(ht.size)*100)
	}
}
