package report

import (
	"slices"
	"strconv"

	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("cyannotate.report.fingerprint.v1")

// Fingerprint digests the source text and its ledger in line order. Equal
// input always gives the same value, so reports can be compared without
// diffing them.
func Fingerprint(src string, lines map[int]string) uint64 {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		// ключ фиксированной длины, ошибки быть не может
		panic(err)
	}
	_, _ = h.Write([]byte(src))
	for _, k := range sortedLines(lines) {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(strconv.AppendInt(nil, int64(k), 10))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(lines[k]))
	}
	return h.Sum64()
}

func sortedLines(lines map[int]string) []int {
	keys := make([]int, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
