// Package product knows the IGS long product filename convention
//
//	AAAVPPPTTT_YYYYDDDHHMM_LEN_SMP_CNT.FMT[.gz]
//
// and selects the final orbit products of the IGS combination out of a
// directory listing.
package product

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Pattern selects IGS (AAA) operational (PPP=OPS) final (TTT=FIN) orbits in
// compressed SP3 format. The version digit, epoch, period and sampling are free.
const Pattern = "IGS0OPSFIN*ORB.SP3.gz"

var patternPrefix, patternSuffix, _ = strings.Cut(Pattern, "*")

// Match returns the names matching Pattern, in listing order. Matching is
// case-sensitive and the wildcard matches any run of characters, '/'
// included, as fnmatch does. The result is never nil.
func Match(names []string) []string {
	matches := make([]string, 0, len(names))
	for _, name := range names {
		if len(name) >= len(patternPrefix)+len(patternSuffix) &&
			strings.HasPrefix(name, patternPrefix) && strings.HasSuffix(name, patternSuffix) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Name is a parsed long product filename
type Name struct {
	Center      string    // AAA, analysis center
	Version     int       // V
	Project     string    // PPP, e.g. OPS
	Solution    string    // TTT, e.g. FIN, RAP, ULT
	Start       time.Time // first epoch, UTC
	Period      string    // LEN, e.g. 01D
	Sampling    string    // SMP, e.g. 15M
	Content     string    // CNT, e.g. ORB, CLK
	Format      string    // FMT, e.g. SP3
	Compression string    // trailing extension, empty when uncompressed
}

var longName = regexp.MustCompile(
	`^([A-Z0-9]{3})([0-9])([A-Z0-9]{3})([A-Z]{3})_` +
		`([0-9]{4})([0-9]{3})([0-9]{2})([0-9]{2})_` +
		`([0-9]{2}[SMHDWLU])_([0-9]{2}[SMHDWLU])_` +
		`([A-Z]{3})\.([A-Z0-9]{3})(?:\.([A-Za-z0-9]+))?$`)

// ParseName parses a long product filename
func ParseName(name string) (*Name, error) {
	m := longName.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("%q is not a long product filename", name)
	}

	version, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[5])
	doy, _ := strconv.Atoi(m[6])
	hour, _ := strconv.Atoi(m[7])
	minute, _ := strconv.Atoi(m[8])

	daysInYear := 365
	if time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		daysInYear = 366
	}
	if doy < 1 || doy > daysInYear {
		return nil, fmt.Errorf("%q: day of year %d out of range", name, doy)
	}
	if hour > 23 || minute > 59 {
		return nil, fmt.Errorf("%q: invalid time of day %02d:%02d", name, hour, minute)
	}

	start := time.Date(year, time.January, 1, hour, minute, 0, 0, time.UTC).AddDate(0, 0, doy-1)
	return &Name{
		Center:      m[1],
		Version:     version,
		Project:     m[3],
		Solution:    m[4],
		Start:       start,
		Period:      m[9],
		Sampling:    m[10],
		Content:     m[11],
		Format:      m[12],
		Compression: m[13],
	}, nil
}

// String rebuilds the filename
func (n *Name) String() string {
	s := fmt.Sprintf("%s%d%s%s_%04d%03d%02d%02d_%s_%s_%s.%s",
		n.Center, n.Version, n.Project, n.Solution,
		n.Start.Year(), n.Start.YearDay(), n.Start.Hour(), n.Start.Minute(),
		n.Period, n.Sampling, n.Content, n.Format)
	if n.Compression != "" {
		s += "." + n.Compression
	}
	return s
}
