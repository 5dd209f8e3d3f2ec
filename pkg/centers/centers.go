// Package centers loads the study's center and country reference files
// used to decorate the workbook report with region/country/center
// columns, matching centers.c/.h in the original toolkit.
package centers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dfaudit/sigtrack/pkg/rangeset"
)

// Center is one reporting center: its contact info, whether it is the
// catch-all error-monitor center, and the patient ID ranges it owns.
type Center struct {
	Number            int
	IsErrorMonitor    bool
	Contact           string
	Affiliation       string
	Address           string
	PrimaryFax        string
	SecondaryFax      string
	Phone             string
	Investigator      string
	InvestigatorPhone string
	ReplyAddress      string
	PatientIDs        rangeset.Set
}

// Country groups a contiguous range of center numbers under a region.
type Country struct {
	Name    string
	Region  string
	Centers rangeset.Set
}

// Registry holds the centers and countries loaded for a study.
type Registry struct {
	Centers   []*Center
	Countries []*Country
}

// LoadCenters reads the pipe-delimited center reference file: each record
// is number|contact|affiliation|address|primary_fax|secondary_fax|phone|
// investigator|investigator_phone|reply_address, followed by any number of
// trailing columns that are either the literal sentinel "ERROR MONITOR" or
// a whitespace-separated "<low> <high>" patient-range, matching
// load_centers exactly (unrecognized trailing columns are logged and
// skipped, not a hard error).
func LoadCenters(r io.Reader) ([]*Center, error) {
	var out []*Center
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cols := strings.Split(scanner.Text(), "|")
		if len(cols) == 0 {
			continue
		}
		c := &Center{}
		for f, v := range cols {
			switch f {
			case 0:
				c.Number, _ = strconv.Atoi(strings.TrimSpace(v))
			case 1:
				c.Contact = v
			case 2:
				c.Affiliation = v
			case 3:
				c.Address = v
			case 4:
				c.PrimaryFax = v
			case 5:
				c.SecondaryFax = v
			case 6:
				c.Phone = v
			case 7:
				c.Investigator = v
			case 8:
				c.InvestigatorPhone = v
			case 9:
				c.ReplyAddress = v
			default:
				if v == "ERROR MONITOR" {
					c.IsErrorMonitor = true
					continue
				}
				var lo, hi int
				if _, err := fmt.Sscanf(v, "%d %d", &lo, &hi); err != nil {
					fmt.Fprintf(os.Stderr, "centers: center %d: skipping unrecognized column %q\n", c.Number, v)
					continue
				}
				c.PatientIDs = c.PatientIDs.AddToFront(lo, hi)
			}
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// FindCenter returns the center number owning patient id, falling back to
// the error-monitor center if one was loaded, or 0 if neither matches,
// matching find_center.
func FindCenter(centers []*Center, id int) int {
	var errMonitor *Center
	for _, c := range centers {
		if c.PatientIDs.Contains(id) {
			return c.Number
		}
		if c.IsErrorMonitor {
			errMonitor = c
		}
	}
	if errMonitor != nil {
		return errMonitor.Number
	}
	return 0
}

// LoadCountries reads the pipe-delimited country reference file: each
// record is name|region|center-range-list, matching load_countries. A
// malformed center-range-list yields an empty range for that country
// rather than stopping the scan.
func LoadCountries(r io.Reader) ([]*Country, error) {
	var out []*Country
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cols := strings.SplitN(scanner.Text(), "|", 3)
		c := &Country{}
		if len(cols) > 0 {
			c.Name = cols[0]
		}
		if len(cols) > 1 {
			c.Region = cols[1]
		}
		if len(cols) > 2 {
			if set, err := rangeset.Parse(cols[2]); err == nil {
				c.Centers = set
			}
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// FindCountry returns the name of the country owning centerID, or
// "Unknown" if none matches, matching find_country.
func FindCountry(countries []*Country, centerID int) string {
	for _, c := range countries {
		if c.Centers.Contains(centerID) {
			return c.Name
		}
	}
	return "Unknown"
}

// FindRegion returns the region of the country owning centerID, or
// "Unknown" if none matches, matching find_region.
func FindRegion(countries []*Country, centerID int) string {
	for _, c := range countries {
		if c.Centers.Contains(centerID) {
			return c.Region
		}
	}
	return "Unknown"
}
