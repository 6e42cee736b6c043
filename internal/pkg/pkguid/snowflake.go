package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// epochMillis is Thu Jan 01 2026 00:00:00 UTC.
const epochMillis = 1767225600000

var setEpoch sync.Once //nolint:gochecknoglobals // guards the library-wide epoch

// Base58 generates short, time-ordered Snowflake IDs rendered in base58, so
// they are safe to use as URL path segments.
type Base58 struct {
	node *snowflake.Node
}

func randomNodeID() (int64, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return 0, err
	}

	return nodeID & (1<<snowflake.NodeBits - 1), nil
}

// NewBase58 builds a generator on a random node ID.
func NewBase58() (*Base58, error) {
	setEpoch.Do(func() { snowflake.Epoch = epochMillis })

	nodeID, err := randomNodeID()
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Base58{node: node}, nil
}

func (b *Base58) Generate() string {
	return b.node.Generate().Base58()
}
