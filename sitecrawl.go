// Package sitecrawl provides a polite, single-domain web crawler.
// It walks a site breadth-first from a seed URL, honoring robots.txt, a page
// cap, and a politeness delay, and reports an outcome for every URL it visits.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package sitecrawl
