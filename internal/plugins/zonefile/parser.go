// Package zonefile reads BIND-style master files and turns their A, CNAME
// and PTR records into facts for the dns stage. Record types that carry no
// domain-to-address information (SOA, NS, MX, TXT, ...) are skipped.
package zonefile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Record is one relevant resource record from a master file. Data holds
// the address for A records and the normalized target FQDN for CNAME and
// PTR records.
type Record struct {
	Name string
	Type string
	Data string
}

// Zone is the parsed content of one master file.
type Zone struct {
	Origin  string
	Records []Record
}

// keptTypes are the record types that map onto network facts.
var keptTypes = map[string]bool{"A": true, "CNAME": true, "PTR": true}

// skippedTypes are recognized but irrelevant; anything else is a parse
// error so typos in a type field don't silently drop records.
var skippedTypes = map[string]bool{
	"AAAA": true, "NS": true, "SOA": true, "MX": true,
	"TXT": true, "SRV": true, "CAA": true,
}

// LoadFile parses the master file at path.
func LoadFile(path string) (*Zone, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	z, err := ParseText(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return z, nil
}

// ParseText parses master file text. It honours $ORIGIN, owner
// inheritance and parenthesized record continuation; $TTL and per-record
// TTL/class fields are accepted and ignored since facts carry no TTL.
func ParseText(text string) (*Zone, error) {
	origin := ""
	lastOwner := ""
	var recs []Record

	for _, line := range logicalLines(text) {
		// Leading whitespace means the record inherits the previous owner.
		inherit := line != "" && (line[0] == ' ' || line[0] == '\t')
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "$ORIGIN") {
			parts := strings.Fields(line)
			if len(parts) != 2 {
				return nil, errors.New("invalid $ORIGIN directive")
			}
			origin = strings.TrimSuffix(strings.ToLower(parts[1]), ".")
			continue
		}
		if strings.HasPrefix(upper, "$TTL") {
			continue
		}
		if origin == "" {
			return nil, errors.New("zone file missing $ORIGIN")
		}

		tokens := strings.Fields(line)
		owner, rest := splitOwner(tokens, origin, lastOwner, inherit)
		if owner == "" {
			return nil, errors.New("owner name omitted on first record")
		}
		lastOwner = owner

		typ, rdata, err := splitTypeAndData(rest)
		if err != nil {
			return nil, err
		}
		if skippedTypes[typ] {
			continue
		}
		if !keptTypes[typ] {
			return nil, fmt.Errorf("unknown record type %q", typ)
		}

		data := strings.TrimSpace(rdata)
		if typ != "A" {
			data = normalizeFQDN(data, origin)
		}
		recs = append(recs, Record{Name: owner, Type: typ, Data: data})
	}

	return &Zone{Origin: origin, Records: recs}, nil
}

// logicalLines strips ';' comments and folds parenthesized continuations
// into single records. The leading whitespace of the opening line is
// preserved because it signals owner inheritance.
func logicalLines(text string) []string {
	var (
		buf     []string
		depth   int
		out     []string
		scanner = bufio.NewScanner(strings.NewReader(text))
	)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" && depth == 0 {
			continue
		}
		depth += strings.Count(line, "(") - strings.Count(line, ")")
		if len(buf) > 0 {
			line = strings.TrimSpace(line)
		}
		buf = append(buf, line)
		if depth <= 0 {
			joined := strings.Join(buf, " ")
			joined = strings.ReplaceAll(joined, "(", " ")
			joined = strings.ReplaceAll(joined, ")", " ")
			if strings.TrimSpace(joined) != "" {
				out = append(out, joined)
			}
			buf = buf[:0]
			depth = 0
		}
	}
	return out
}

// splitOwner separates the owner name from the rest of the record. The
// inherit flag (leading whitespace on the source line) is authoritative:
// numeric labels in reverse zones look exactly like TTLs, so token shape
// alone can not tell an owner from a TTL field.
func splitOwner(tokens []string, origin, lastOwner string, inherit bool) (string, []string) {
	if len(tokens) == 0 {
		return "", nil
	}
	if inherit || looksLikeClass(tokens[0]) || looksLikeType(tokens[0]) {
		return lastOwner, tokens
	}
	return normalizeFQDN(tokens[0], origin), tokens[1:]
}

// splitTypeAndData skips optional TTL and class fields, then returns the
// type and remaining rdata.
func splitTypeAndData(rest []string) (string, string, error) {
	idx := 0
	for idx < len(rest) && (looksLikeTTL(rest[idx]) || looksLikeClass(rest[idx])) {
		idx++
	}
	if idx >= len(rest) {
		return "", "", errors.New("missing record type")
	}
	typ := strings.ToUpper(rest[idx])
	idx++
	if idx >= len(rest) {
		return "", "", fmt.Errorf("missing rdata for %s record", typ)
	}
	return typ, strings.Join(rest[idx:], " "), nil
}

var ttlPattern = regexp.MustCompile(`^(?:\d+[wdhmsWDHMS]?)+$`)

func looksLikeTTL(tok string) bool   { return ttlPattern.MatchString(tok) }
func looksLikeClass(tok string) bool { return strings.EqualFold(tok, "IN") }

func looksLikeType(tok string) bool {
	tok = strings.ToUpper(tok)
	return keptTypes[tok] || skippedTypes[tok]
}

// normalizeFQDN resolves a possibly-relative name against the origin and
// strips the trailing dot. "@" means the origin itself.
func normalizeFQDN(name, origin string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "@" {
		return origin
	}
	if strings.HasSuffix(name, ".") {
		return strings.TrimSuffix(name, ".")
	}
	if origin == "" {
		return name
	}
	return name + "." + origin
}

// DiscoverZoneFiles returns the sorted files directly under dir.
func DiscoverZoneFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
