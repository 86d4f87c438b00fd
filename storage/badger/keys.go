package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/condensit/core"
)

// Key prefixes for different data types
const (
	nodePrefix      = "hiernode"
	nodeLevelPrefix = "hierlvl"
	nodeIDSeq       = "hiernodeseq"
	runStatusPrefix = "runstat"
	schemaKey       = "schema:version"
)

// makeNodeKey generates a key for a hierarchy node by ID.
func makeNodeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", nodePrefix, id))
}

// makeNodeLevelKey generates a composite key for the batch/level index.
// Format: prefix:batchID\x00:level:id
// Level and ID are written in BigEndian order so lexicographic sort walks
// a batch level by level, and each level in insertion order.
func makeNodeLevelKey(batchID string, level int, id core.ID) []byte {
	prefix := makePartialLevelKey(batchID, level)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialLevelKey generates a prefix covering all index entries for
// one level of a batch.
func makePartialLevelKey(batchID string, level int) []byte {
	prefix := makeBatchKeyPrefix(batchID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(level))
	return buf
}

// makeBatchKeyPrefix generates a prefix covering every index entry of a
// batch. The NUL terminator keeps batch "a" from matching batch "ab".
func makeBatchKeyPrefix(batchID string) []byte {
	return []byte(nodeLevelPrefix + ":" + batchID + "\x00")
}

// makeRunStatusKey generates a key for a run status record.
func makeRunStatusKey(batchID string) []byte {
	return []byte(runStatusPrefix + ":" + batchID)
}
