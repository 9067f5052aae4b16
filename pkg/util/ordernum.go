package util

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrderNumberGenerator issues unique, time-ordered order numbers.
type OrderNumberGenerator struct {
	node *snowflake.Node
}

func NewOrderNumberGenerator(nodeID int64) (*OrderNumberGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", nodeID, err)
	}
	return &OrderNumberGenerator{node: node}, nil
}

// Next returns numbers of the form BG20261018-<snowflake>.
func (g *OrderNumberGenerator) Next() string {
	id := g.node.Generate()
	return fmt.Sprintf("BG%s-%s", time.UnixMilli(id.Time()).Format("20060102"), id.String())
}
