package crawl

import "github.com/fwojciec/sitecrawl"

// wildcardAgent is the user agent the gate evaluates robots rules for.
const wildcardAgent = "*"

// Gate decides whether a candidate URL may be fetched.
type Gate struct {
	start  string
	robots sitecrawl.RobotsPolicy
}

// NewGate returns a gate scoped to the host of startURL.
// A nil robots policy allows everything.
func NewGate(startURL string, robots sitecrawl.RobotsPolicy) *Gate {
	if robots == nil {
		robots = sitecrawl.AllowAllRobots
	}
	return &Gate{
		start:  startURL,
		robots: robots,
	}
}

// Classify returns a terminal outcome and false for URLs that must not be
// fetched, or true if the URL is eligible for fetching.
// Host scope is checked before robots rules.
func (g *Gate) Classify(rawURL string) (sitecrawl.Outcome, bool) {
	if !sitecrawl.SameHost(rawURL, g.start) {
		return sitecrawl.OutcomeOutOfDomain, false
	}
	if !g.robots.CanFetch(wildcardAgent, rawURL) {
		return sitecrawl.OutcomeDisallowed, false
	}
	return 0, true
}
