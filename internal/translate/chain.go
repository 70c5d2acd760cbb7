package translate

import (
	"github.com/danmuck/verbridge/internal/version"
)

// Direction selects which way a packet travels through a chain.
type Direction uint8

const (
	// Forward translates native packets into target packets.
	Forward Direction = iota
	// Reverse translates target packets into native packets.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Link is one hop of a chain. From and To follow the forward direction.
type Link struct {
	From    version.Version
	To      version.Version
	forward Rules
	reverse Rules
}

// Chain is the immutable sequence of hops between a native and a target version.
type Chain struct {
	native version.Version
	target version.Version
	links  []Link
}

func (c *Chain) Native() version.Version { return c.native }

func (c *Chain) Target() version.Version { return c.target }

// Len is the number of hops, equal to the ordinal distance of the endpoints.
func (c *Chain) Len() int { return len(c.links) }

// Hops renders the forward hop list, e.g. ["v1->v2", "v2->v3"].
func (c *Chain) Hops() []string {
	out := make([]string, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, l.From.ID+"->"+l.To.ID)
	}
	return out
}

// travel describes one link as crossed in direction d.
type travel struct {
	index int
	rules Rules
	from  string
	to    string
}

func (c *Chain) route(d Direction) []travel {
	out := make([]travel, 0, len(c.links))
	if d == Forward {
		for i, l := range c.links {
			out = append(out, travel{index: i, rules: l.forward, from: l.From.ID, to: l.To.ID})
		}
		return out
	}
	for i := len(c.links) - 1; i >= 0; i-- {
		l := c.links[i]
		out = append(out, travel{index: i, rules: l.reverse, from: l.To.ID, to: l.From.ID})
	}
	return out
}

func (c *Chain) origin(d Direction) string {
	if d == Forward {
		return c.native.ID
	}
	return c.target.ID
}
