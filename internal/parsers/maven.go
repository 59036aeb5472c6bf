package parsers

import (
	"fmt"
	"strings"

	"kevscan/internal/models"
)

// MavenTreeParser parses the text output of `mvn dependency:tree`, e.g.
//
//	com.example:app:jar:1.0.0
//	+- org.apache.logging.log4j:log4j-api:jar:2.17.1:compile
//	|  \- org.apache.logging.log4j:log4j-core:jar:2.17.1:compile
//	\- junit:junit:jar:4.13.2:test
//
// Maven writes no machine-readable lockfile, so the tree dump is the one
// place the resolved versions (and which deps are transitive) can be read
// back from.
type MavenTreeParser struct{}

// CanParse returns true for saved dependency:tree output
func (p *MavenTreeParser) CanParse(filename string) bool {
	return filename == "maven_dep_tree.txt"
}

// Parse extracts dependencies from a dependency tree dump.
//
// A document that doesn't match the tree grammar yields an empty list and a
// nil error rather than failing: the rest of the scan carries on with zero
// Maven dependencies. Callers that need to tell "empty tree" from "broken
// file" can't, and that is the long-standing contract of this parser.
func (p *MavenTreeParser) Parse(filepath string, content []byte) ([]models.Dependency, error) {
	nodes, err := parseTree(string(content))
	if err != nil {
		return []models.Dependency{}, nil
	}

	deps := make([]models.Dependency, 0, len(nodes))
	for _, n := range nodes {
		deps = append(deps, models.Dependency{
			// Only the artifact id, without the group id. OSV's Maven
			// ecosystem keys on group:artifact, so group-less names under-
			// match there; kept for compatibility with existing output.
			Name:          n.artifact,
			Version:       n.version,
			Ecosystem:     models.EcosystemMaven,
			Transitivity:  n.transitivity,
			SourceFile:    filepath,
			Line:          n.line,
			AllowedHashes: map[string][]string{},
		})
	}
	return deps, nil
}

// treeNode is one parsed dependency line
type treeNode struct {
	artifact     string
	version      string
	transitivity models.Transitivity
	line         int
}

// parseTree parses a whole tree document. The first line names the project
// itself and is dropped unread. Every remaining line must match the node
// grammar; a single malformed line rejects the whole document. One blank
// line at end of file (the usual trailing newline) is tolerated.
func parseTree(doc string) ([]treeNode, error) {
	lines := strings.Split(doc, "\n")

	var nodes []treeNode
	for i, line := range lines[1:] {
		lineNo := i + 2 // 1-based, counting the dropped project line
		if line == "" && lineNo == len(lines) {
			break
		}
		node, err := parseTreeLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		node.line = lineNo
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// parseTreeLine matches: indent markers, one branch glyph, a coordinate.
// Depth is the marker count alone; which glyph introduced the node carries
// no meaning here.
func parseTreeLine(line string) (treeNode, error) {
	rest, depth := indentMarkers(line)

	rest, ok := branchGlyph(rest)
	if !ok {
		return treeNode{}, fmt.Errorf("expected branch glyph in %q", line)
	}

	artifact, version, err := splitCoordinate(rest)
	if err != nil {
		return treeNode{}, err
	}

	transitivity := models.TransitivityDirect
	if depth > 0 {
		transitivity = models.TransitivityTransitive
	}
	return treeNode{artifact: artifact, version: version, transitivity: transitivity}, nil
}

// indentMarkers greedily consumes leading nesting markers and counts them.
// Maven prints "|  " at a level whose branch has siblings still to come and
// "   " once it does not; the two spellings are interchangeable and each
// stands for one level of depth.
func indentMarkers(s string) (rest string, depth int) {
	for {
		if r, ok := strings.CutPrefix(s, "|  "); ok {
			s, depth = r, depth+1
			continue
		}
		if r, ok := strings.CutPrefix(s, "   "); ok {
			s, depth = r, depth+1
			continue
		}
		return s, depth
	}
}

// branchGlyph consumes the "+- " (has later siblings) or `\- ` (last child)
// node marker
func branchGlyph(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, "+- "); ok {
		return rest, true
	}
	return strings.CutPrefix(s, `\- `)
}

// splitCoordinate takes a group:artifact:packaging:version:scope[:classifier]
// coordinate and keeps the artifact and version fields. The first four fields
// must each be colon-terminated; the scope tail after the fourth colon is
// discarded unread. Field contents are not validated.
func splitCoordinate(s string) (artifact, version string, err error) {
	fields := strings.SplitN(s, ":", 5)
	if len(fields) < 5 {
		return "", "", fmt.Errorf("malformed coordinate %q", s)
	}
	return fields[1], fields[3], nil
}
