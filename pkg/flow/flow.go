// Package flow defines the conversation flow graph the widget hands to its
// rendering layer. The widget does not execute or mutate the graph; it only
// validates it once and passes it through.
package flow

import (
	"github.com/pkg/errors"
)

// Block is one node of a conversation flow graph. An empty Path marks a
// terminal block.
type Block struct {
	ID      string   `yaml:"id" json:"id"`
	Message string   `yaml:"message" json:"message"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
	Path    string   `yaml:"path,omitempty" json:"path,omitempty"`
}

// Graph is a validated conversation flow with a designated start block.
type Graph struct {
	start  string
	blocks map[string]Block
}

// New validates blocks and returns a Graph starting at start. Block IDs must
// be unique and every non-empty Path must name a block in the graph.
func New(start string, blocks ...Block) (*Graph, error) {
	if start == "" {
		return nil, errors.New("flow: start block id is empty")
	}
	if len(blocks) == 0 {
		return nil, errors.New("flow: no blocks")
	}
	byID := make(map[string]Block, len(blocks))
	for _, b := range blocks {
		if b.ID == "" {
			return nil, errors.New("flow: block with empty id")
		}
		if _, ok := byID[b.ID]; ok {
			return nil, errors.Errorf("flow: duplicate block id %q", b.ID)
		}
		byID[b.ID] = b
	}
	if _, ok := byID[start]; !ok {
		return nil, errors.Errorf("flow: start block %q not found", start)
	}
	for _, b := range byID {
		if b.Path == "" {
			continue
		}
		if _, ok := byID[b.Path]; !ok {
			return nil, errors.Errorf("flow: block %q points at unknown path %q", b.ID, b.Path)
		}
	}
	return &Graph{start: start, blocks: byID}, nil
}

// Start returns the start block.
func (g *Graph) Start() Block {
	return g.blocks[g.start]
}

// Block looks up a block by ID.
func (g *Graph) Block(id string) (Block, bool) {
	b, ok := g.blocks[id]
	return b, ok
}

// Len returns the number of blocks in the graph.
func (g *Graph) Len() int {
	return len(g.blocks)
}
